// Package wizard provides the interactive prompts used when hatch is
// invoked without an application name.
package wizard

import "errors"

// Answers holds the user's wizard selections.
type Answers struct {
	AppName  string // directory and package name for the new project
	Template string // catalog identifier of the chosen template
}

// Options configures which prompts run.
type Options struct {
	// DefaultTemplate is preselected in the template list.
	DefaultTemplate string

	// AskTemplate shows the template question. Leave false when the
	// template was fixed on the command line.
	AskTemplate bool
}

// ErrCancelled is returned when the user aborts the wizard.
var ErrCancelled = errors.New("wizard cancelled by user")
