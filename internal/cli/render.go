package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hatchkit/hatch/internal/project"
	"github.com/hatchkit/hatch/internal/registry"
)

// Completion styles, tuned for light and dark terminals.
var (
	cliPrimary = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: "#DA7756"}).
			Bold(true)

	cliSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}).
			Bold(true)

	cliWarn = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"})

	cliErr = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}).
		Bold(true)

	cliMuted = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}).
			Padding(0, 2)
)

// renderCompletion prints the project-ready summary: anything that went
// sideways on the way, how to start the project, and the template's notes.
func renderCompletion(w io.Writer, appName string, tmpl registry.Template, res *project.Result, styled bool) {
	next := res.Manager.RunCommand(string(res.NextStep))

	fmt.Fprintln(w)
	for _, warning := range res.Warnings {
		if styled {
			fmt.Fprintln(w, cliWarn.Render("! "+warning))
		} else {
			fmt.Fprintln(w, "! "+warning)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
	}

	if styled {
		var body strings.Builder
		body.WriteString(cliSuccess.Render("✓ " + appName + " is ready"))
		body.WriteString("\n\n")
		body.WriteString(cliPrimary.Render("cd " + appName))
		body.WriteString("\n")
		body.WriteString(cliPrimary.Render(next))
		fmt.Fprintln(w, cardStyle.Render(body.String()))
	} else {
		fmt.Fprintf(w, "%s is ready\n\n  cd %s\n  %s\n", appName, appName, next)
	}

	if tmpl.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderNotes(tmpl.Notes, styled))
	}
}

// renderError formats a fatal error for stderr.
func renderError(err error) string {
	if deps != nil && deps.Theme != nil && !deps.Theme.NoColor {
		return cliErr.Render("✗ " + err.Error())
	}
	return "error: " + err.Error()
}

// renderNotes turns a template's markdown notes into terminal text.
// Rendering problems fall back to the raw markdown.
func renderNotes(notes string, styled bool) string {
	notes = strings.TrimSpace(notes)
	if !styled {
		return notes
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		return notes
	}
	out, err := renderer.Render(notes)
	if err != nil {
		return notes
	}
	return strings.TrimRight(out, "\n")
}
