package tui

import (
	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/printer"
)

// LogBrowser owns the fetched entries of one function and time range, the
// filtered view over them, the selection, the expand mode and the two
// scroll offsets. Every mutation leaves them consistent with each other.
type LogBrowser struct {
	entries  []client.LogEntry
	messages []printer.Message

	filter string
	view   []int

	// selected indexes view, -1 when view is empty.
	selected int
	expanded bool

	listOffset    int
	contentOffset int
}

// NewLogBrowser takes ownership of entries and parses each message once.
func NewLogBrowser(entries []client.LogEntry) *LogBrowser {
	b := &LogBrowser{
		entries:  entries,
		messages: make([]printer.Message, len(entries)),
	}
	for i, e := range entries {
		b.messages[i] = printer.ParseMessage(e.Message)
	}
	b.recompute()
	return b
}

// SetFilter replaces the filter text and recomputes the view.
func (b *LogBrowser) SetFilter(text string) {
	b.filter = text
	b.recompute()
}

// AppendFilter adds typed characters to the filter.
func (b *LogBrowser) AppendFilter(s string) {
	b.SetFilter(b.filter + s)
}

// Backspace removes the last rune of the filter.
func (b *LogBrowser) Backspace() {
	if b.filter == "" {
		return
	}
	r := []rune(b.filter)
	b.SetFilter(string(r[:len(r)-1]))
}

// recompute rebuilds the view and resets selection, expand mode and both
// offsets in one step.
func (b *LogBrowser) recompute() {
	b.view = client.FilterIndices(b.entries, func(e client.LogEntry) string { return e.Message }, client.ParseKeywordFilter(b.filter))
	if len(b.view) == 0 {
		b.selected = -1
	} else {
		b.selected = 0
	}
	b.expanded = false
	b.listOffset = 0
	b.contentOffset = 0
}

func (b *LogBrowser) Filter() string     { return b.filter }
func (b *LogBrowser) Total() int         { return len(b.entries) }
func (b *LogBrowser) Len() int           { return len(b.view) }
func (b *LogBrowser) Expanded() bool     { return b.expanded }
func (b *LogBrowser) ListOffset() int    { return b.listOffset }
func (b *LogBrowser) ContentOffset() int { return b.contentOffset }

// Selected returns the selected row of the view.
func (b *LogBrowser) Selected() (int, bool) {
	return b.selected, b.selected >= 0
}

// View returns the indices of the filtered entries into the collection.
func (b *LogBrowser) View() []int {
	return append([]int(nil), b.view...)
}

// Row returns the entry shown at a row of the view.
func (b *LogBrowser) Row(row int) (client.LogEntry, printer.Message) {
	i := b.view[row]
	return b.entries[i], b.messages[i]
}

// SelectedEntry returns the selected entry.
func (b *LogBrowser) SelectedEntry() (client.LogEntry, printer.Message, bool) {
	if b.selected < 0 {
		return client.LogEntry{}, printer.Message{}, false
	}
	e, m := b.Row(b.selected)
	return e, m, true
}

// LineCount is the number of rendered lines of the selected entry.
func (b *LogBrowser) LineCount() int {
	_, m, ok := b.SelectedEntry()
	if !ok {
		return 0
	}
	return m.LineCount()
}

func (b *LogBrowser) maxContentOffset() int {
	return max(0, b.LineCount()-1)
}

// MoveSelection moves the selection one row, saturating at both ends. In
// list mode the list offset follows: it only moves when the selection would
// leave the viewport, putting it on the first or last visible row.
func (b *LogBrowser) MoveSelection(direction, visibleHeight int) {
	if len(b.view) == 0 {
		return
	}

	next := b.selected
	if direction > 0 {
		next = min(b.selected+1, len(b.view)-1)
	} else if direction < 0 {
		next = max(b.selected-1, 0)
	}
	b.selected = next

	if !b.expanded {
		height := max(visibleHeight, 1)
		if next >= b.listOffset+height {
			b.listOffset = next - (height - 1)
		} else if next < b.listOffset {
			b.listOffset = next
		}
	}

	b.contentOffset = min(b.contentOffset, b.maxContentOffset())
}

// VisibleRange returns the rows [start, end) of a window of visibleHeight
// rows centered on the selection, pinned to the end of the view when the
// selection is close to it.
func (b *LogBrowser) VisibleRange(visibleHeight int) (int, int) {
	total := len(b.view)
	height := max(visibleHeight, 0)
	half := height / 2

	if b.selected < 0 {
		return 0, min(height, total)
	}

	start := max(b.selected-half, 0)
	if b.selected+half >= total {
		start = max(total-height, 0)
	}
	return start, min(start+height, total)
}

// Recenter moves the list offset to the start of VisibleRange. Used when
// the viewport is resized.
func (b *LogBrowser) Recenter(visibleHeight int) {
	b.listOffset, _ = b.VisibleRange(visibleHeight)
}

// ListWindow returns the rows drawn in list mode, starting at the list
// offset.
func (b *LogBrowser) ListWindow(visibleHeight int) (int, int) {
	total := len(b.view)
	start := min(b.listOffset, max(total-1, 0))
	return start, min(start+max(visibleHeight, 0), total)
}

// ScrollUp moves the expanded content up one line.
func (b *LogBrowser) ScrollUp() {
	b.scrollBy(-1)
}

// ScrollDown moves the expanded content down one line.
func (b *LogBrowser) ScrollDown() {
	b.scrollBy(1)
}

// PageUp moves the expanded content up PageSize lines.
func (b *LogBrowser) PageUp() {
	b.scrollBy(-PageSize)
}

// PageDown moves the expanded content down PageSize lines.
func (b *LogBrowser) PageDown() {
	b.scrollBy(PageSize)
}

// scrollBy is a no-op outside expand mode or without selection. Going up
// saturates at 0, going down clamps to the last line.
func (b *LogBrowser) scrollBy(delta int) {
	if !b.expanded || b.selected < 0 {
		return
	}
	if delta < 0 {
		b.contentOffset = max(b.contentOffset+delta, 0)
		return
	}
	b.contentOffset = min(b.contentOffset+delta, b.maxContentOffset())
}

// ToggleExpand flips the expand mode and resets the content offset.
func (b *LogBrowser) ToggleExpand() {
	b.expanded = !b.expanded
	b.contentOffset = 0
}

// ContentWindow returns the lines of the selected entry drawn in expand
// mode for a viewport of visibleHeight lines.
func (b *LogBrowser) ContentWindow(visibleHeight int) []string {
	_, m, ok := b.SelectedEntry()
	if !ok {
		return nil
	}
	lines := m.ColoredLines()
	start := min(b.contentOffset, len(lines))
	end := min(start+max(visibleHeight, 0), len(lines))
	return lines[start:end]
}
