package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Single accent color, 256-color codes.
const (
	ColorCyan     = "80"  // Primary accent for titles and matches
	ColorWhite    = "255" // Important text
	ColorGray     = "245" // Secondary text, metadata
	ColorDarkGray = "238" // Separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
	ColorGreen    = "77"  // Success
)

// Styles holds the render styles for list and detail output.
type Styles struct {
	Title    lipgloss.Style
	Language lipgloss.Style
	Tag      lipgloss.Style
	Meta     lipgloss.Style
	Favorite lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultStyles returns the colored styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyan)),
		Language: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Meta:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Favorite: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
	}
}

// PlainStyles returns unstyled components for pipes and NO_COLOR.
func PlainStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle(),
		Language: lipgloss.NewStyle(),
		Tag:      lipgloss.NewStyle(),
		Meta:     lipgloss.NewStyle(),
		Favorite: lipgloss.NewStyle(),
		Success:  lipgloss.NewStyle(),
		Warning:  lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle(),
		Dim:      lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return PlainStyles()
	}
	return DefaultStyles()
}
