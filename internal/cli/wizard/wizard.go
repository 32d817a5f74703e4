package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hatchkit/hatch/internal/registry"
)

// appNamePattern matches npm-safe project directory names.
var appNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateAppName checks a proposed application name. The name doubles
// as the package.json name, so it must be npm-safe.
func ValidateAppName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if !appNamePattern.MatchString(name) {
		return errors.New("use lowercase letters, digits and . _ - starting with a letter or digit")
	}
	return nil
}

// Run executes the wizard and returns the answers. Each question runs as
// its own independent huh.Form; huh v0.8.x mis-scrolls when multiple
// groups share a single viewport.
func Run(opts Options) (*Answers, error) {
	answers := &Answers{Template: opts.DefaultTemplate}
	theme := newHatchTheme()

	forms := []*huh.Form{nameForm(answers)}
	if opts.AskTemplate {
		templates, err := registry.All()
		if err != nil {
			return nil, fmt.Errorf("load template catalog: %w", err)
		}
		forms = append(forms, templateForm(answers, templates))
	}

	for _, form := range forms {
		err := form.WithTheme(theme).WithAccessible(false).Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}
	}

	answers.AppName = strings.TrimSpace(answers.AppName)
	return answers, nil
}

// nameForm asks for the application name.
func nameForm(answers *Answers) *huh.Form {
	input := huh.NewInput().
		Title("Application name").
		Description("Directory and package name for the new project").
		Placeholder("my-app").
		Value(&answers.AppName).
		Validate(ValidateAppName)

	return huh.NewForm(huh.NewGroup(input))
}

// templateForm asks for the template. The entry already stored in
// answers.Template is preselected.
func templateForm(answers *Answers, templates []registry.Template) *huh.Form {
	sel := huh.NewSelect[string]().
		Title("Template").
		Description("What should hatch scaffold?").
		Options(templateOptions(templates)...).
		Value(&answers.Template)

	return huh.NewForm(huh.NewGroup(sel))
}

// templateOptions maps catalog entries to select options.
func templateOptions(templates []registry.Template) []huh.Option[string] {
	opts := make([]huh.Option[string], len(templates))
	for i, tmpl := range templates {
		label := tmpl.Label
		if tmpl.Family != "" {
			label = fmt.Sprintf("%s (%s)", tmpl.Label, tmpl.Family)
		}
		opts[i] = huh.NewOption(label, tmpl.ID)
	}
	return opts
}
