package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

func entriesOf(messages ...string) []client.LogEntry {
	entries := make([]client.LogEntry, len(messages))
	for i, m := range messages {
		entries[i] = client.LogEntry{Timestamp: int64(1700000000000 + i*1000), Message: m, IngestionTime: int64(1700000000500 + i*1000)}
	}
	return entries
}

func numberedEntries(n int) []client.LogEntry {
	messages := make([]string, n)
	for i := range messages {
		messages[i] = fmt.Sprintf("entry %d", i)
	}
	return entriesOf(messages...)
}

func selectedIndex(t *testing.T, b *LogBrowser) int {
	t.Helper()
	i, ok := b.Selected()
	require.True(t, ok)
	return i
}

func TestLogBrowser_FilterScenarios(t *testing.T) {
	b := NewLogBrowser(entriesOf("error A", "warn B", "error B"))

	assert.Equal(t, []int{0, 1, 2}, b.View(), "empty filter keeps everything")

	b.SetFilter("error")
	assert.Equal(t, []int{0, 2}, b.View())
	assert.Equal(t, 0, selectedIndex(t, b))

	b.SetFilter("error B")
	assert.Equal(t, []int{2}, b.View())

	b.SetFilter("ERROR")
	assert.Equal(t, []int{0, 2}, b.View(), "matching ignores case")

	b.SetFilter("fatal")
	assert.Empty(t, b.View())
	_, ok := b.Selected()
	assert.False(t, ok)
}

func TestLogBrowser_FilterIsSubsequence(t *testing.T) {
	b := NewLogBrowser(entriesOf("a x", "b", "a y", "c a", "x"))
	for _, f := range []string{"", "a", "x", "a x", "zz", "  a  "} {
		b.SetFilter(f)
		view := b.View()
		for i := 1; i < len(view); i++ {
			assert.Less(t, view[i-1], view[i], "filter %q keeps order", f)
		}
		if len(view) == 0 {
			_, ok := b.Selected()
			assert.False(t, ok)
		} else {
			assert.Equal(t, 0, selectedIndex(t, b))
		}
	}
}

func TestLogBrowser_FilterResetsState(t *testing.T) {
	b := NewLogBrowser(numberedEntries(50))
	for i := 0; i < 30; i++ {
		b.MoveSelection(1, 10)
	}
	b.ToggleExpand()
	require.True(t, b.Expanded())

	b.AppendFilter("entry")
	assert.False(t, b.Expanded(), "expand mode is forced off")
	assert.Equal(t, 0, selectedIndex(t, b))
	assert.Equal(t, 0, b.ListOffset())
	assert.Equal(t, 0, b.ContentOffset())
}

func TestLogBrowser_MoveSelectionFollows(t *testing.T) {
	b := NewLogBrowser(numberedEntries(30))

	for i := 0; i < 9; i++ {
		b.MoveSelection(1, 10)
	}
	assert.Equal(t, 9, selectedIndex(t, b))
	assert.Equal(t, 0, b.ListOffset(), "offset unchanged while the cursor is visible")

	b.MoveSelection(1, 10)
	assert.Equal(t, 10, selectedIndex(t, b))
	assert.Equal(t, 1, b.ListOffset(), "cursor becomes the last visible row")

	for i := 0; i < 5; i++ {
		b.MoveSelection(-1, 10)
	}
	assert.Equal(t, 5, selectedIndex(t, b))
	assert.Equal(t, 1, b.ListOffset())

	for i := 0; i < 5; i++ {
		b.MoveSelection(-1, 10)
	}
	assert.Equal(t, 0, selectedIndex(t, b))
	assert.Equal(t, 0, b.ListOffset(), "cursor becomes the first visible row")
}

func TestLogBrowser_MoveSelectionSaturates(t *testing.T) {
	b := NewLogBrowser(numberedEntries(3))

	b.MoveSelection(-1, 10)
	assert.Equal(t, 0, selectedIndex(t, b))

	for i := 0; i < 10; i++ {
		b.MoveSelection(1, 10)
		assert.Equal(t, min(i+1, 2), selectedIndex(t, b))
	}

	empty := NewLogBrowser(nil)
	empty.MoveSelection(1, 10)
	_, ok := empty.Selected()
	assert.False(t, ok)
	assert.Equal(t, 0, empty.ListOffset())
}

func TestLogBrowser_MoveSelectionInExpandMode(t *testing.T) {
	b := NewLogBrowser(numberedEntries(30))
	b.ToggleExpand()

	for i := 0; i < 15; i++ {
		b.MoveSelection(1, 10)
	}
	assert.Equal(t, 15, selectedIndex(t, b))
	assert.Equal(t, 0, b.ListOffset(), "list offset frozen in expand mode")
}

func TestLogBrowser_VisibleRange(t *testing.T) {
	small := NewLogBrowser(numberedEntries(5))
	for i := 0; i < 5; i++ {
		start, end := small.VisibleRange(10)
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
		small.MoveSelection(1, 10)
	}

	b := NewLogBrowser(numberedEntries(100))
	for i := 0; i < 50; i++ {
		b.MoveSelection(1, 10)
	}
	start, end := b.VisibleRange(10)
	assert.Equal(t, 45, start, "selection centered")
	assert.Equal(t, 55, end)
	assert.Equal(t, 41, b.ListOffset(), "movement used the follow policy")

	b.Recenter(10)
	assert.Equal(t, 45, b.ListOffset())

	for i := 0; i < 48; i++ {
		b.MoveSelection(1, 10)
	}
	start, end = b.VisibleRange(10)
	assert.Equal(t, 90, start, "pinned to the end")
	assert.Equal(t, 100, end)
}

func TestLogBrowser_ListWindow(t *testing.T) {
	b := NewLogBrowser(numberedEntries(30))
	for i := 0; i < 12; i++ {
		b.MoveSelection(1, 10)
	}
	start, end := b.ListWindow(10)
	assert.Equal(t, b.ListOffset(), start)
	assert.Equal(t, start+10, end)
	assert.True(t, start <= 12 && 12 < end)
}

func TestLogBrowser_LineCount(t *testing.T) {
	b := NewLogBrowser(entriesOf(`{"a":1,"b":2}`, "one\ntwo\nthree\n", "plain"))

	assert.Equal(t, 4, b.LineCount(), "pretty-printed document")

	b.MoveSelection(1, 10)
	assert.Equal(t, 3, b.LineCount())

	b.MoveSelection(1, 10)
	assert.Equal(t, 1, b.LineCount())
}

func TestLogBrowser_ContentScroll(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	b := NewLogBrowser(entriesOf(strings.Join(lines, "\n"), "short"))

	b.ScrollDown()
	b.PageDown()
	assert.Equal(t, 0, b.ContentOffset(), "no-op outside expand mode")

	b.ToggleExpand()
	b.ScrollDown()
	assert.Equal(t, 1, b.ContentOffset())
	b.PageDown()
	assert.Equal(t, 11, b.ContentOffset())
	b.PageDown()
	b.PageDown()
	assert.Equal(t, 24, b.ContentOffset(), "clamped to the last line")
	b.ScrollDown()
	assert.Equal(t, 24, b.ContentOffset())

	window := b.ContentWindow(5)
	assert.Equal(t, []string{"line 24"}, window)

	b.PageUp()
	assert.Equal(t, 14, b.ContentOffset())
	b.PageUp()
	b.PageUp()
	assert.Equal(t, 0, b.ContentOffset(), "saturates at zero")
	b.ScrollUp()
	assert.Equal(t, 0, b.ContentOffset())

	b.PageDown()
	b.MoveSelection(1, 10)
	assert.Equal(t, 0, b.ContentOffset(), "clamped to the new selection")
}

func TestLogBrowser_ContentScrollEmptyMessage(t *testing.T) {
	b := NewLogBrowser(entriesOf(""))
	b.ToggleExpand()
	assert.Equal(t, 0, b.LineCount())

	b.PageDown()
	b.ScrollDown()
	assert.Equal(t, 0, b.ContentOffset())
	b.PageUp()
	assert.Equal(t, 0, b.ContentOffset())
	assert.Empty(t, b.ContentWindow(10))
}

func TestLogBrowser_ContentOffsetInvariant(t *testing.T) {
	b := NewLogBrowser(entriesOf(`{"items":[1,2,3],"nested":{"k":"v"}}`, "x\ny", ""))
	ops := []func(){
		b.ToggleExpand, b.PageDown, b.ScrollDown, b.PageDown, b.ScrollUp,
		func() { b.MoveSelection(1, 5) }, b.PageDown, b.PageUp,
		func() { b.MoveSelection(1, 5) }, b.PageDown, b.ScrollDown,
		func() { b.MoveSelection(-1, 5) }, b.ScrollDown, b.ToggleExpand,
	}
	for _, op := range ops {
		op()
		assert.GreaterOrEqual(t, b.ContentOffset(), 0)
		assert.LessOrEqual(t, b.ContentOffset(), max(0, b.LineCount()-1))
	}
}

func TestLogBrowser_ToggleExpand(t *testing.T) {
	b := NewLogBrowser(numberedEntries(20))
	for i := 0; i < 12; i++ {
		b.MoveSelection(1, 5)
	}
	offset := b.ListOffset()

	b.ToggleExpand()
	assert.True(t, b.Expanded())
	assert.Equal(t, 0, b.ContentOffset())

	b.ToggleExpand()
	assert.False(t, b.Expanded())
	assert.Equal(t, 0, b.ContentOffset())
	assert.Equal(t, 12, selectedIndex(t, b))
	assert.Equal(t, offset, b.ListOffset())
}
