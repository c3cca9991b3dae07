package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/printer"
)

// View renders the TUI
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderBody())

	status := m.statusBar()
	sections = append(sections, status.View())

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and the breadcrumb of the selections.
func (m Model) renderHeader() string {
	title := m.Styles.Title.Render("λ lambdalogs") + "  " + m.Styles.Breadcrumb.Render(m.screenTitle())

	crumbs := []string{"profiles"}
	if m.profile.Name != "" {
		crumbs = append(crumbs, m.profile.Name)
	}
	if m.function != "" {
		crumbs = append(crumbs, m.function)
	}
	if m.state == LogViewer {
		crumbs = append(crumbs, m.timeRange.From.Format(DateHourLayout)+" → "+m.timeRange.To.Format(DateHourLayout))
	}
	breadcrumb := m.Styles.Breadcrumb.Render(strings.Join(crumbs, " › "))

	return m.Styles.Header.Width(m.Width).MaxWidth(m.Width).Render(title) + "\n" +
		lipgloss.NewStyle().MaxWidth(m.Width).Render(breadcrumb)
}

func (m Model) screenTitle() string {
	switch m.state {
	case ProfileSelection:
		return "Select a profile"
	case FunctionList:
		return "Select a function"
	case DateSelection:
		return "Select a time range"
	case LogViewer:
		if m.browser.Expanded() {
			return "Log entry"
		}
		return "Logs"
	}
	return ""
}

// renderBody renders the active screen padded to the visible height.
func (m Model) renderBody() string {
	h := m.visibleHeight()

	var lines []string
	switch m.state {
	case ProfileSelection:
		lines = renderEntryList(m, m.profiles, "No profile matches the filter", func(p client.Profile) string {
			detail := p.Region
			if detail == "" {
				detail = "default region"
			}
			return p.Name + "  " + m.Styles.RowDetail.Render(detail)
		})
	case FunctionList:
		lines = renderEntryList(m, m.functions, "No function matches the filter", func(f string) string {
			return f
		})
	case DateSelection:
		lines = strings.Split(m.renderDateSelection(), "\n")
	case LogViewer:
		if m.browser.Expanded() {
			lines = m.renderExpandedEntry(h)
		} else {
			lines = m.renderLogList(h)
		}
	}

	return fitLines(lines, h)
}

// fitLines pads or cuts lines to exactly height lines.
func fitLines(lines []string, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderEntryList[T any](m Model, l *EntryList[T], empty string, render func(T) string) []string {
	if l.Len() == 0 {
		if len(l.Items()) == 0 {
			empty = "Nothing to select"
		}
		return []string{m.Styles.Empty.Render(empty)}
	}

	start, end := l.Window()
	lines := make([]string, 0, end-start)
	for row := start; row < end; row++ {
		style := m.Styles.Row
		if row == l.Index() {
			style = m.Styles.RowSelected
		}
		lines = append(lines, style.Width(m.Width).MaxWidth(m.Width).Render(render(l.At(row))))
	}
	return lines
}

func (m Model) renderDateSelection() string {
	r := m.dates

	var quick []string
	quick = append(quick, m.Styles.ColumnTitle.Render("1  Quick range"))
	for i, q := range QuickRanges {
		line := "  " + q.Label
		if i == r.QuickIndex() {
			line = "› " + q.Label
			if r.Column() == QuickColumn || !r.Editing() {
				line = m.Styles.FieldActive.Render(line)
			}
		}
		quick = append(quick, line)
	}

	var custom []string
	title := "2  Custom range"
	if r.Editing() {
		title += " (editing)"
	}
	custom = append(custom, m.Styles.ColumnTitle.Render(title))
	for f := FromDate; f <= ToHour; f++ {
		value := r.FieldValue(f)
		if r.Column() == CustomColumn && f == r.ActiveField() {
			if r.Editing() {
				value = m.Styles.FieldEditing.Render(value)
			} else {
				value = m.Styles.FieldActive.Render(value)
			}
		}
		custom = append(custom, m.Styles.FieldLabel.Render(f.String())+value)
	}

	quickStyle, customStyle := m.Styles.ColumnFocused, m.Styles.Column
	if r.Column() == CustomColumn {
		quickStyle, customStyle = m.Styles.Column, m.Styles.ColumnFocused
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		quickStyle.Render(strings.Join(quick, "\n")),
		" ",
		customStyle.Render(strings.Join(custom, "\n")),
	)

	summary := m.Styles.RowDetail.Render("Range: " + r.Describe())
	parts := []string{columns, summary}
	if m.err != nil {
		parts = append(parts, m.Styles.Error.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderLogList(h int) []string {
	b := m.browser
	if b.Len() == 0 {
		msg := "No log entries in this range"
		if b.Total() > 0 {
			msg = fmt.Sprintf("No entry matches %q", b.Filter())
		}
		return []string{m.Styles.Empty.Render(msg)}
	}

	selected, _ := b.Selected()
	start, end := b.ListWindow(h)
	lines := make([]string, 0, end-start)
	for row := start; row < end; row++ {
		entry, msg := b.Row(row)
		summary := msg.Summary()

		marker := " "
		if level := printer.DetectLevel(summary); level != "" {
			marker = GetLevelStyle(level).Render("●")
		}
		line := m.Styles.LogTimestamp.Render(printer.FormatTimestamp(entry.Timestamp)) + " " + marker + " " + summary

		style := m.Styles.Row
		if row == selected {
			style = m.Styles.RowSelected
		}
		lines = append(lines, style.Width(m.Width).MaxWidth(m.Width).Render(line))
	}
	return lines
}

func (m Model) renderExpandedEntry(h int) []string {
	b := m.browser
	entry, msg, ok := b.SelectedEntry()
	if !ok {
		return []string{m.Styles.Empty.Render("No entry selected")}
	}

	selected, _ := b.Selected()
	kind := "text"
	if msg.Kind == printer.Structured {
		kind = "json"
	}
	header := m.Styles.EntryHeader.Width(m.Width).MaxWidth(m.Width).Render(fmt.Sprintf("%s  entry %d/%d  %s",
		printer.FormatTimestamp(entry.Timestamp), selected+1, b.Len(), kind))

	lines := strings.Split(header, "\n")
	for _, l := range b.ContentWindow(h - len(lines)) {
		lines = append(lines, m.Styles.LogMessage.MaxWidth(m.Width).Render(l))
	}
	return lines
}

// statusBar fills the status bar from the current selections.
func (m Model) statusBar() StatusBar {
	s := m.StatusBar
	s.Profile = m.profile.Name
	s.Region = m.profile.Region
	s.Function = m.function
	s.CursorPosition = -1

	switch m.state {
	case ProfileSelection:
		if p, ok := m.profiles.Selected(); ok {
			s.Profile, s.Region = p.Name, p.Region
		}
		s.EntryCount, s.FilteredCount = len(m.profiles.Items()), m.profiles.Len()
		s.CursorPosition = m.profiles.Index()
	case FunctionList:
		s.EntryCount, s.FilteredCount = len(m.functions.Items()), m.functions.Len()
		s.CursorPosition = m.functions.Index()
	case DateSelection:
		s.TimeRange = m.dates.Describe()
	case LogViewer:
		b := m.browser
		s.TimeRange = m.timeRange.From.Format(DateHourLayout) + " → " + m.timeRange.To.Format(DateHourLayout)
		s.EntryCount, s.FilteredCount = b.Total(), b.Len()
		if i, ok := b.Selected(); ok {
			s.CursorPosition = i
		}
		s.Expanded = b.Expanded()
		s.Line = b.ContentOffset()
		s.LineCount = b.LineCount()
	}

	if m.pending != nil {
		s.Loading = m.Spinner.View() + " " + m.pending.label
	}
	switch {
	case m.err != nil:
		s.Message = m.err.Error()
	case m.status != "":
		s.Message = m.status
	}
	return s
}

// renderFooter renders the filter bar and the help line.
func (m Model) renderFooter() string {
	var top string
	switch m.state {
	case ProfileSelection:
		top = m.filterBar(m.profiles.Filter(), false).View()
	case FunctionList:
		top = m.filterBar(m.functions.Filter(), false).View()
	case LogViewer:
		top = m.filterBar(m.browser.Filter(), m.browser.Expanded()).View()
	case DateSelection:
		top = m.Styles.RowDetail.Render("Press space to edit the custom range, enter to load the logs")
	}

	expanded := m.state == LogViewer && m.browser.Expanded()
	help := m.Styles.HelpBar.MaxWidth(m.Width).Render(m.Help.ShortHelpView(m.Keys.HelpFor(m.state, expanded)))

	return top + "\n" + help
}

func (m Model) filterBar(text string, disabled bool) FilterBar {
	f := m.FilterBar
	f.Text = text
	f.Disabled = disabled
	return f
}
