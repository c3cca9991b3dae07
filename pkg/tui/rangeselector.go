package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

// ErrInvalidRange is returned when the custom range ends before it starts.
var ErrInvalidRange = errors.New("invalid time range")

// Column of the date screen holding the focus.
type Column int

const (
	QuickColumn Column = iota
	CustomColumn
)

// Field of the custom range.
type Field int

const (
	FromDate Field = iota
	FromHour
	ToDate
	ToHour
)

const fieldCount = 4

func (f Field) String() string {
	switch f {
	case FromDate:
		return "From date"
	case FromHour:
		return "From hour"
	case ToDate:
		return "To date"
	case ToHour:
		return "To hour"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// QuickRange is a preset ending now.
type QuickRange struct {
	Label    string
	Duration time.Duration
}

// QuickRanges are the presets in display order.
var QuickRanges = []QuickRange{
	{"Last 15 minutes", 15 * time.Minute},
	{"Last 1 hour", time.Hour},
	{"Last 3 hours", 3 * time.Hour},
	{"Last 12 hours", 12 * time.Hour},
	{"Last 24 hours", 24 * time.Hour},
	{"Last 3 days", 3 * 24 * time.Hour},
	{"Last 7 days", 7 * 24 * time.Hour},
}

const (
	defaultQuickRange = 1
	// maxDaysBack bounds how far the custom dates can go.
	maxDaysBack = 366
)

// RangeSelector holds the state of the date screen.
type RangeSelector struct {
	now func() time.Time

	column  Column
	editing bool
	quick   int
	field   Field

	fromDate time.Time
	fromHour int
	toDate   time.Time
	toHour   int

	minDate time.Time
	maxDate time.Time
}

// NewRangeSelector starts on the quick column with "Last 1 hour". Custom
// fields default to today 00:00 up to the next full hour.
func NewRangeSelector(now func() time.Time) *RangeSelector {
	if now == nil {
		now = time.Now
	}
	current := now()
	today := midnight(current)
	next := current.Truncate(time.Hour).Add(time.Hour)

	return &RangeSelector{
		now:      now,
		column:   QuickColumn,
		quick:    defaultQuickRange,
		fromDate: today,
		fromHour: 0,
		toDate:   midnight(next),
		toHour:   next.Hour(),
		minDate:  today.AddDate(0, 0, -maxDaysBack),
		maxDate:  today.AddDate(0, 0, 1),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (r *RangeSelector) Column() Column     { return r.column }
func (r *RangeSelector) Editing() bool      { return r.editing }
func (r *RangeSelector) QuickIndex() int    { return r.quick }
func (r *RangeSelector) ActiveField() Field { return r.field }

// SelectColumn moves the focus. Leaving the custom column stops editing.
func (r *RangeSelector) SelectColumn(c Column) {
	r.column = c
	if c != CustomColumn {
		r.editing = false
	}
}

// ToggleColumn moves the focus to the other column.
func (r *RangeSelector) ToggleColumn() {
	if r.column == QuickColumn {
		r.SelectColumn(CustomColumn)
	} else {
		r.SelectColumn(QuickColumn)
	}
}

// ToggleEditing flips whether arrows adjust the custom fields. Only
// meaningful while the custom column is focused.
func (r *RangeSelector) ToggleEditing() {
	if r.column != CustomColumn {
		return
	}
	r.editing = !r.editing
}

// Left goes to the previous field while editing, to the previous preset
// otherwise. No wraparound.
func (r *RangeSelector) Left() {
	if r.editing {
		if r.field > FromDate {
			r.field--
		}
		return
	}
	if r.quick > 0 {
		r.quick--
	}
}

// Right goes to the next field while editing, to the next preset
// otherwise. No wraparound.
func (r *RangeSelector) Right() {
	if r.editing {
		if r.field < fieldCount-1 {
			r.field++
		}
		return
	}
	if r.quick < len(QuickRanges)-1 {
		r.quick++
	}
}

// Up increments the active field while editing, otherwise selects the
// previous preset, cycling.
func (r *RangeSelector) Up() {
	if r.editing {
		r.adjust(1)
		return
	}
	r.quick = (r.quick - 1 + len(QuickRanges)) % len(QuickRanges)
}

// Down decrements the active field while editing, otherwise selects the
// next preset, cycling.
func (r *RangeSelector) Down() {
	if r.editing {
		r.adjust(-1)
		return
	}
	r.quick = (r.quick + 1) % len(QuickRanges)
}

// adjust moves the active field by delta units, clamped to its domain.
// An hour never carries into its date.
func (r *RangeSelector) adjust(delta int) {
	switch r.field {
	case FromDate:
		r.fromDate = r.clampDate(r.fromDate.AddDate(0, 0, delta))
	case FromHour:
		r.fromHour = clampHour(r.fromHour + delta)
	case ToDate:
		r.toDate = r.clampDate(r.toDate.AddDate(0, 0, delta))
	case ToHour:
		r.toHour = clampHour(r.toHour + delta)
	}
}

func (r *RangeSelector) clampDate(d time.Time) time.Time {
	if d.Before(r.minDate) {
		return r.minDate
	}
	if d.After(r.maxDate) {
		return r.maxDate
	}
	return d
}

func clampHour(h int) int {
	return max(0, min(23, h))
}

// Custom returns the instants assembled from the custom fields.
func (r *RangeSelector) Custom() client.TimeRange {
	return client.TimeRange{
		From: atHour(r.fromDate, r.fromHour),
		To:   atHour(r.toDate, r.toHour),
	}
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// Quick returns the focused preset.
func (r *RangeSelector) Quick() QuickRange {
	return QuickRanges[r.quick]
}

// Resolve returns the interval of the focused column. A custom range
// ending before it starts is an ErrInvalidRange, it is never swapped.
func (r *RangeSelector) Resolve() (client.TimeRange, error) {
	if r.column == QuickColumn {
		return client.Last(r.now(), r.Quick().Duration), nil
	}
	tr := r.Custom()
	if tr.From.After(tr.To) {
		return tr, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange,
			tr.From.Format(DateHourLayout), tr.To.Format(DateHourLayout))
	}
	return tr, nil
}

// DateHourLayout formats custom range bounds.
const DateHourLayout = "2006-01-02 15:04"

// FieldValue renders a custom field.
func (r *RangeSelector) FieldValue(f Field) string {
	switch f {
	case FromDate:
		return r.fromDate.Format("2006-01-02")
	case FromHour:
		return fmt.Sprintf("%02d:00", r.fromHour)
	case ToDate:
		return r.toDate.Format("2006-01-02")
	case ToHour:
		return fmt.Sprintf("%02d:00", r.toHour)
	}
	return ""
}

// Describe summarizes the range that Resolve would produce.
func (r *RangeSelector) Describe() string {
	if r.column == QuickColumn {
		return r.Quick().Label
	}
	tr := r.Custom()
	return tr.From.Format(DateHourLayout) + " → " + tr.To.Format(DateHourLayout)
}
