package ui

// ColorPalette holds the hex colors used by interactive components.
type ColorPalette struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
	Muted     string
}

// defaultPalette is the hatch brand palette (dark-terminal values; the
// styled CLI output uses lipgloss adaptive colors built from the same hues).
var defaultPalette = ColorPalette{
	Primary:   "#DA7756",
	Secondary: "#8B5CF6",
	Success:   "#10B981",
	Error:     "#EF4444",
	Muted:     "#6B7280",
}

// ThemeConfig controls theme construction.
type ThemeConfig struct {
	// NoColor disables all styling and animation, typically driven by
	// the NO_COLOR environment variable.
	NoColor bool
}

// Theme carries the palette and the global color switch.
type Theme struct {
	Colors  ColorPalette
	NoColor bool
}

// NewTheme creates a Theme from the given configuration.
func NewTheme(cfg ThemeConfig) *Theme {
	return &Theme{
		Colors:  defaultPalette,
		NoColor: cfg.NoColor,
	}
}
