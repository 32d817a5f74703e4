// Package config loads the user-level hatch configuration from the XDG
// config directory. Every field is optional; a missing or malformed file
// yields the compiled defaults so scaffolding never blocks on config.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/hatchkit/hatch/internal/defs"
	"github.com/hatchkit/hatch/internal/fetch"
	"github.com/hatchkit/hatch/internal/registry"
)

// KitConfig selects the template-kit release to scaffold from.
// URL wins over Tag when both are set.
type KitConfig struct {
	URL string `yaml:"url"`
	Tag string `yaml:"tag"`
}

// Config is the user-level configuration.
type Config struct {
	DefaultTemplate    string    `yaml:"default_template"`
	Kit                KitConfig `yaml:"kit"`
	DisableUpdateCheck bool      `yaml:"disable_update_check"`
}

// Default returns the compiled defaults.
func Default() *Config {
	return &Config{
		DefaultTemplate: registry.DefaultID,
		Kit:             KitConfig{Tag: fetch.DefaultKitTag},
	}
}

// ResolvedKitURL returns the kit tarball URL the configuration selects.
func (c *Config) ResolvedKitURL() string {
	if c.Kit.URL != "" {
		return c.Kit.URL
	}
	if c.Kit.Tag != "" {
		return fetch.KitURLForTag(c.Kit.Tag)
	}
	return fetch.DefaultKitURL
}

// Loader reads the configuration file from disk.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger discards.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{logger: logger}
}

// Load returns the configuration merged over compiled defaults. The file
// lives at <xdg-config>/hatch/config.yaml; HATCH_CONFIG_DIR overrides the
// directory. A malformed file is logged and ignored rather than failing
// the run, and environment variables apply over file values.
func (l *Loader) Load() *Config {
	cfg := Default()

	if path, ok := configPath(); ok {
		found, err := loadYAMLFile(path, cfg)
		switch {
		case err != nil:
			l.logger.Warn("ignoring malformed config file", "path", path, "error", err)
			cfg = Default()
		case found:
			l.logger.Debug("config loaded", "path", path)
		}
	}

	applyEnvOverrides(cfg)
	normalize(cfg)
	return cfg
}

// configPath locates the config file. The boolean is false when no
// candidate file exists.
func configPath() (string, bool) {
	if dir := os.Getenv("HATCH_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, defs.ConfigYAML), true
	}
	path, err := xdg.SearchConfigFile(filepath.Join("hatch", defs.ConfigYAML))
	if err != nil {
		return "", false
	}
	return path, true
}

// loadYAMLFile unmarshals path into out. The boolean reports whether the
// file existed.
func loadYAMLFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// applyEnvOverrides applies environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("HATCH_TEMPLATE_KIT_URL"); url != "" {
		cfg.Kit.URL = url
	}
	if v := os.Getenv("HATCH_NO_UPDATE_CHECK"); v == "true" || v == "1" {
		cfg.DisableUpdateCheck = true
	}
}

// normalize refills fields an explicit empty value would otherwise blank.
func normalize(cfg *Config) {
	if cfg.DefaultTemplate == "" {
		cfg.DefaultTemplate = registry.DefaultID
	}
}
