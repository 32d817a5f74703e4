// Package registry holds the static catalog of supported project templates.
// The catalog is compiled into the binary from registry.yaml; every template
// identifier accepted on the command line must appear there.
package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// DefaultID is the template used when no --template flag is given.
const DefaultID = "react"

// NextStep identifies the command a freshly scaffolded project should run first.
type NextStep string

const (
	// NextDev means the project starts with the package manager's dev script.
	NextDev NextStep = "dev"

	// NextBuild means the project must be built before anything else.
	// Library templates have no dev server.
	NextBuild NextStep = "build"
)

// Sentinel errors for the registry package.
var (
	// ErrUnknownTemplate indicates the requested template is not in the catalog.
	ErrUnknownTemplate = errors.New("unknown template")
)

// Template describes one entry of the catalog.
type Template struct {
	// ID is the identifier accepted by --template.
	ID string `yaml:"id"`

	// Label is the human-readable name shown in listings and the wizard.
	Label string `yaml:"label"`

	// Dir is the subdirectory of the template kit holding this template.
	Dir string `yaml:"dir"`

	// Family groups related templates; the "lib" family is built, not served.
	Family string `yaml:"family,omitempty"`

	// Notes is optional markdown printed after scaffolding succeeds.
	Notes string `yaml:"notes,omitempty"`
}

// Next returns the first command kind for this template.
func (t Template) Next() NextStep {
	if t.Family == "lib" {
		return NextBuild
	}
	return NextDev
}

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

var (
	loadOnce sync.Once
	loadErr  error
	byID     map[string]Template
	ordered  []Template
)

func load() {
	var file catalogFile
	if err := yaml.Unmarshal(registryYAML, &file); err != nil {
		loadErr = fmt.Errorf("parse embedded registry: %w", err)
		return
	}
	if len(file.Templates) == 0 {
		loadErr = errors.New("embedded registry is empty")
		return
	}
	byID = make(map[string]Template, len(file.Templates))
	ordered = make([]Template, 0, len(file.Templates))
	for _, t := range file.Templates {
		if t.ID == "" || t.Dir == "" {
			loadErr = fmt.Errorf("embedded registry entry %q missing id or dir", t.ID)
			return
		}
		if _, dup := byID[t.ID]; dup {
			loadErr = fmt.Errorf("embedded registry has duplicate id %q", t.ID)
			return
		}
		byID[t.ID] = t
		ordered = append(ordered, t)
	}
	if _, ok := byID[DefaultID]; !ok {
		loadErr = fmt.Errorf("embedded registry missing default template %q", DefaultID)
	}
}

// Lookup resolves a template identifier against the catalog.
// Unknown identifiers return ErrUnknownTemplate with a hint at `hatch templates`.
func Lookup(id string) (Template, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Template{}, loadErr
	}
	t, ok := byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q (run `hatch templates` to list supported templates)", ErrUnknownTemplate, id)
	}
	return t, nil
}

// All returns every catalog entry in registry order.
func All() ([]Template, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Template, len(ordered))
	copy(out, ordered)
	return out, nil
}
