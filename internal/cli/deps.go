// Package cli wires the hatch command tree: the root scaffolding
// command, the template catalog listing, and the services they share.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/hatchkit/hatch/internal/config"
	"github.com/hatchkit/hatch/internal/ui"
	"github.com/hatchkit/hatch/internal/update"
)

// Dependencies holds the services shared by CLI commands. This is the
// composition root: the only place concrete services get wired together.
type Dependencies struct {
	Config        *config.Config
	Theme         *ui.Theme
	Headless      *ui.HeadlessManager
	UpdateChecker update.Checker
	UpdateCache   *update.Cache
	Logger        *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies creates and wires the CLI services. It runs once at
// startup, before flags are parsed; anything that depends on a flag value
// is constructed inside the command that needs it.
func InitDependencies() {
	logger := newLogger(false)

	deps = &Dependencies{
		Config:        config.NewLoader(logger).Load(),
		Theme:         ui.NewTheme(ui.ThemeConfig{NoColor: os.Getenv("NO_COLOR") != ""}),
		Headless:      ui.NewHeadlessManager(),
		UpdateChecker: update.NewChecker(update.DefaultAPIURL, nil),
		UpdateCache:   update.NewCache("", 0),
		Logger:        logger,
	}
}

// GetDeps returns the current Dependencies instance, nil before init.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies instance (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// newLogger builds the run logger. Verbose runs log debug lines to
// stderr; quiet runs discard everything.
func newLogger(verbose bool) *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
