package defs

// Common file names used across the project.
const (
	// PackageJSON is the manifest file rewritten after scaffolding.
	PackageJSON = "package.json"

	// GitDir is the version-control metadata directory.
	GitDir = ".git"

	// ConfigYAML is the user configuration file under the XDG config dir.
	ConfigYAML = "config.yaml"

	// UpdateCacheJSON caches the last release check under the XDG cache dir.
	UpdateCacheJSON = "update-check.json"
)
