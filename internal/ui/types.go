// Package ui renders terminal feedback for the scaffolding pipeline.
// Indicators are animated when attached to a TTY and degrade to plain
// log lines in headless environments.
package ui

// Progress creates activity indicators for long-running pipeline phases.
type Progress interface {
	// Spinner starts an indeterminate spinner with the given title.
	// In headless mode the title is printed as a log line instead.
	Spinner(title string) Spinner
}

// Spinner is an indeterminate activity indicator.
type Spinner interface {
	// SetTitle replaces the text shown next to the spinner.
	SetTitle(title string)
	// Stop halts the indicator. Safe to call more than once.
	Stop()
}
