// Package project orchestrates the scaffolding pipeline: it provisions
// the target directory, downloads and extracts the template, rewrites the
// manifest, installs dependencies, and initializes the git repository.
package project

import "errors"

// Sentinel errors for the scaffolding pipeline.
var (
	// ErrTargetExists is returned when the target project directory
	// already exists.
	ErrTargetExists = errors.New("target directory already exists")

	// ErrEmptyAppName is returned when no application name is provided.
	ErrEmptyAppName = errors.New("application name is empty")
)
