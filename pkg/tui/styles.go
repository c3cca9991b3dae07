// SPDX-License-Identifier: GPL-3.0-only
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#3B82F6") // Blue
	ColorSuccess   = lipgloss.Color("#22C55E") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Dark gray
	ColorBg        = lipgloss.Color("#1F2937") // Dark background
	ColorBgActive  = lipgloss.Color("#374151") // Active background
	ColorText      = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted = lipgloss.Color("#9CA3AF") // Muted text
)

// Log level colors
var LogLevelColors = map[string]lipgloss.Color{
	"ERROR":    ColorError,
	"FATAL":    ColorError,
	"CRITICAL": ColorError,
	"WARN":     ColorWarning,
	"WARNING":  ColorWarning,
	"INFO":     ColorSuccess,
	"DEBUG":    ColorSecondary,
	"TRACE":    ColorMuted,
	// Lambda runtime lines
	"START":  ColorPrimary,
	"END":    ColorPrimary,
	"REPORT": ColorPrimary,
}

// Styles contains all UI styles
type Styles struct {
	// Base styles
	App        lipgloss.Style
	Header     lipgloss.Style
	Title      lipgloss.Style
	Breadcrumb lipgloss.Style
	HelpBar    lipgloss.Style

	// List styles
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowDetail   lipgloss.Style
	Empty       lipgloss.Style

	// Log view styles
	LogTimestamp lipgloss.Style
	LogMessage   lipgloss.Style
	EntryHeader  lipgloss.Style

	// Date selection styles
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTitle   lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldActive   lipgloss.Style
	FieldEditing  lipgloss.Style

	// Feedback
	Error   lipgloss.Style
	Loading lipgloss.Style
}

// DefaultStyles creates the default style set
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle(),

		Header: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorText).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(ColorTextMuted),

		HelpBar: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1),

		// Lists
		Row: lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(2),

		RowSelected: lipgloss.NewStyle().
			Background(ColorBgActive).
			Foreground(ColorText).
			Bold(true).
			PaddingLeft(2),

		RowDetail: lipgloss.NewStyle().
			Foreground(ColorTextMuted),

		Empty: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			PaddingLeft(2),

		// Log view
		LogTimestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		LogMessage: lipgloss.NewStyle().
			Foreground(ColorText),

		EntryHeader: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorBorder),

		// Date selection
		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		ColumnFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),

		ColumnTitle: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1),

		FieldLabel: lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(11),

		FieldActive: lipgloss.NewStyle().
			Background(ColorBgActive).
			Foreground(ColorText).
			Bold(true),

		FieldEditing: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorText).
			Bold(true),

		// Feedback
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Loading: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
	}
}

// GetLevelStyle returns a style for the given log level
func GetLevelStyle(level string) lipgloss.Style {
	color, ok := LogLevelColors[level]
	if !ok {
		color = ColorMuted
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true)
}
