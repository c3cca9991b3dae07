// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

// FilterBarStyles defines the styles for the filter bar
type FilterBarStyles struct {
	Container   lipgloss.Style
	Prompt      lipgloss.Style
	Text        lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style
	Keywords    lipgloss.Style
}

// DefaultFilterBarStyles returns the default styles for the filter bar
func DefaultFilterBarStyles() FilterBarStyles {
	return FilterBarStyles{
		Container: lipgloss.NewStyle().
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(ColorText),
		Cursor: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Placeholder: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
		Keywords: lipgloss.NewStyle().
			Foreground(ColorTextMuted),
	}
}

// FilterBar shows the keyword filter typed on list screens.
type FilterBar struct {
	Width       int
	Styles      FilterBarStyles
	Text        string
	Placeholder string
	// Disabled is set when typing does not reach the filter.
	Disabled bool
}

// NewFilterBar creates a filter bar with default styles
func NewFilterBar() FilterBar {
	return FilterBar{
		Width:       80,
		Styles:      DefaultFilterBarStyles(),
		Placeholder: "type to filter, all keywords must match",
	}
}

// View renders the filter bar
func (f FilterBar) View() string {
	prompt := f.Styles.Prompt.Render("Filter › ")

	var body string
	switch {
	case f.Text == "" && f.Disabled:
		body = f.Styles.Placeholder.Render("collapse the entry to filter")
	case f.Text == "":
		body = f.Styles.Placeholder.Render(f.Placeholder)
	default:
		body = f.Styles.Text.Render(f.Text)
	}
	if !f.Disabled {
		body += f.Styles.Cursor.Render("▏")
	}

	if n := len(client.ParseKeywordFilter(f.Text).Keywords()); n > 1 {
		body += f.Styles.Keywords.Render(fmt.Sprintf("  (%d keywords)", n))
	}

	return f.Styles.Container.MaxWidth(f.Width).Render(prompt + body)
}
