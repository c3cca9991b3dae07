package tui

import (
	"github.com/bascanada/lambdalogs/pkg/log/client"
)

// PageSize is the number of single steps of a page up/down.
const PageSize = 10

// EntryList is an ordered read-only list with a keyword filter and a
// highlighted row. Used for profiles and functions.
type EntryList[T any] struct {
	items    []T
	label    func(T) string
	filter   string
	view     []int
	selected int
	offset   int
	height   int
}

// NewEntryList creates the list, label gives the text matched by the filter.
func NewEntryList[T any](items []T, label func(T) string) *EntryList[T] {
	l := &EntryList[T]{label: label}
	l.SetItems(items)
	return l
}

// SetItems replaces the backing items and re-applies the current filter.
func (l *EntryList[T]) SetItems(items []T) {
	l.items = append([]T(nil), items...)
	l.apply()
}

// Items returns the backing items.
func (l *EntryList[T]) Items() []T {
	return l.items
}

// Filter returns the filter text.
func (l *EntryList[T]) Filter() string {
	return l.filter
}

// SetFilter recomputes the view. The highlight goes back to the first row.
func (l *EntryList[T]) SetFilter(text string) {
	l.filter = text
	l.apply()
}

// AppendFilter adds typed characters to the filter.
func (l *EntryList[T]) AppendFilter(s string) {
	l.SetFilter(l.filter + s)
}

// Backspace removes the last rune of the filter.
func (l *EntryList[T]) Backspace() {
	if l.filter == "" {
		return
	}
	r := []rune(l.filter)
	l.SetFilter(string(r[:len(r)-1]))
}

func (l *EntryList[T]) apply() {
	l.view = client.FilterIndices(l.items, l.label, client.ParseKeywordFilter(l.filter))
	l.selected = 0
	l.offset = 0
}

// Len is the number of visible rows.
func (l *EntryList[T]) Len() int {
	return len(l.view)
}

// Index returns the highlighted row, -1 when the view is empty.
func (l *EntryList[T]) Index() int {
	if len(l.view) == 0 {
		return -1
	}
	return l.selected
}

// Next moves the highlight down, saturating at the last row.
func (l *EntryList[T]) Next() {
	if l.selected < len(l.view)-1 {
		l.selected++
	}
	l.follow()
}

// Previous moves the highlight up, saturating at the first row.
func (l *EntryList[T]) Previous() {
	if l.selected > 0 {
		l.selected--
	}
	l.follow()
}

// SetHeight sets the number of rows the list is drawn on.
func (l *EntryList[T]) SetHeight(height int) {
	l.height = height
	l.follow()
}

func (l *EntryList[T]) follow() {
	if l.height <= 0 {
		return
	}
	if l.selected >= l.offset+l.height {
		l.offset = l.selected - l.height + 1
	} else if l.selected < l.offset {
		l.offset = l.selected
	}
}

// PageDown is PageSize calls to Next.
func (l *EntryList[T]) PageDown() {
	for i := 0; i < PageSize; i++ {
		l.Next()
	}
}

// PageUp is PageSize calls to Previous.
func (l *EntryList[T]) PageUp() {
	for i := 0; i < PageSize; i++ {
		l.Previous()
	}
}

// Selected returns the highlighted item, false when the view is empty.
func (l *EntryList[T]) Selected() (T, bool) {
	if len(l.view) == 0 {
		var zero T
		return zero, false
	}
	return l.items[l.view[l.selected]], true
}

// At returns the item of a visible row.
func (l *EntryList[T]) At(row int) T {
	return l.items[l.view[row]]
}

// Label returns the display text of an item.
func (l *EntryList[T]) Label(item T) string {
	return l.label(item)
}

// Window returns the rows to draw, [start, end).
func (l *EntryList[T]) Window() (int, int) {
	total := len(l.view)
	if l.height <= 0 || total == 0 {
		return 0, 0
	}
	return l.offset, min(l.offset+l.height, total)
}
