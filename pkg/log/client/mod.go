package client

import (
	"time"
)

// LogEntry is a single CloudWatch event of a function. Entries are never
// mutated once fetched.
type LogEntry struct {
	// Timestamp in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Message may itself be a serialized JSON document.
	Message string `json:"message"`
	// IngestionTime in epoch milliseconds.
	IngestionTime int64 `json:"ingestionTime"`
}

// Time returns the event timestamp in local time.
func (e LogEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp).Local()
}

// Profile is a credential profile the user can pick from.
type Profile struct {
	Name   string `json:"name" yaml:"name"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	// Source tells where the profile was found (config, aws-config, aws-credentials).
	Source string `json:"source,omitempty" yaml:"-"`
}

// TimeRange is a concrete [From, To) interval.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Last builds the range ending at now and lasting d.
func Last(now time.Time, d time.Duration) TimeRange {
	return TimeRange{From: now.Add(-d), To: now}
}
