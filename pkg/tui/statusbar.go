// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarStyles defines the styles for the status bar
type StatusBarStyles struct {
	Container lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style
	Loading   lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStatusBarStyles returns the default styles for the status bar
func DefaultStatusBarStyles() StatusBarStyles {
	return StatusBarStyles{
		Container: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderBottom(true).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Value: lipgloss.NewStyle().
			Foreground(ColorText),
		Separator: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Loading: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError),
	}
}

// StatusBar displays the navigation context and the position in the
// current list.
type StatusBar struct {
	Width  int
	Styles StatusBarStyles

	// Data to display
	Profile       string
	Region        string
	Function      string
	TimeRange     string
	EntryCount    int
	FilteredCount int
	// CursorPosition is -1 when nothing is selected.
	CursorPosition int
	// Line and LineCount are set in expand mode.
	Line      int
	LineCount int
	Expanded  bool
	Loading   string
	Message   string
}

// NewStatusBar creates a new status bar with default styles
func NewStatusBar() StatusBar {
	return StatusBar{
		Width:          80,
		Styles:         DefaultStatusBarStyles(),
		CursorPosition: -1,
	}
}

func (s StatusBar) item(label, value string) string {
	return s.Styles.Label.Render(label+": ") + s.Styles.Value.Render(value)
}

// View renders the status bar
func (s StatusBar) View() string {
	if s.Width < 20 {
		return ""
	}

	var line1Parts []string
	var line2Parts []string

	// Line 1: where we are
	if s.Profile != "" {
		profile := s.Profile
		if s.Region != "" {
			profile = fmt.Sprintf("%s (%s)", s.Profile, s.Region)
		}
		line1Parts = append(line1Parts, s.item("Profile", profile))
	}
	if s.Function != "" {
		line1Parts = append(line1Parts, s.item("Function", s.Function))
	}
	if s.TimeRange != "" {
		line1Parts = append(line1Parts, s.item("Range", s.TimeRange))
	}
	if len(line1Parts) == 0 {
		line1Parts = append(line1Parts, s.item("Profile", "N/A"))
	}

	// Line 2: loading, counts, position, message
	if s.Loading != "" {
		line2Parts = append(line2Parts, s.Styles.Loading.Render(s.Loading))
	}

	if s.FilteredCount != s.EntryCount {
		line2Parts = append(line2Parts, s.item("Entries", fmt.Sprintf("%d/%d", s.FilteredCount, s.EntryCount)))
	} else {
		line2Parts = append(line2Parts, s.item("Entries", fmt.Sprintf("%d", s.EntryCount)))
	}

	if s.CursorPosition >= 0 && s.FilteredCount > 0 {
		line2Parts = append(line2Parts,
			s.Styles.Value.Render(fmt.Sprintf("Entry %d/%d", s.CursorPosition+1, s.FilteredCount)))
	}

	if s.Expanded && s.LineCount > 0 {
		line2Parts = append(line2Parts,
			s.Styles.Value.Render(fmt.Sprintf("Line %d/%d", s.Line+1, s.LineCount)))
	}

	if s.Message != "" {
		line2Parts = append(line2Parts, s.Styles.Error.Render(s.Message))
	}

	sep := s.Styles.Separator.Render(" | ")
	line1 := strings.Join(line1Parts, sep)
	line2 := strings.Join(line2Parts, sep)

	content := lipgloss.JoinVertical(lipgloss.Left, line1, line2)

	return s.Styles.Container.Width(s.Width).Render(content)
}

// Height returns the height of the status bar in lines, borders included.
func (s StatusBar) Height() int {
	return 4
}
