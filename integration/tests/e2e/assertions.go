//go:build integration

package e2e

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

var verboseAssertions = os.Getenv("VERBOSE_ASSERTIONS") == "1" || os.Getenv("VERBOSE_ASSERTIONS") == "true"

// LogResult chains assertions over fetched entries.
type LogResult struct {
	t       *testing.T
	entries []client.LogEntry
	verbose bool
}

func Expect(t *testing.T, entries []client.LogEntry) *LogResult {
	t.Helper()
	return &LogResult{t: t, entries: entries, verbose: verboseAssertions}
}

func (r *LogResult) Count(expected int) *LogResult {
	r.t.Helper()
	if r.verbose {
		r.t.Logf("✓ Asserting count: expected=%d, actual=%d", expected, len(r.entries))
	}
	assert.Len(r.t, r.entries, expected, "Unexpected entry count")
	return r
}

func (r *LogResult) AtLeast(min int) *LogResult {
	r.t.Helper()
	if r.verbose {
		r.t.Logf("✓ Asserting at least: min=%d, actual=%d", min, len(r.entries))
	}
	assert.GreaterOrEqual(r.t, len(r.entries), min, "Too few entries returned")
	return r
}

// Ordered checks the entries are sorted by timestamp.
func (r *LogResult) Ordered() *LogResult {
	r.t.Helper()
	for i := 1; i < len(r.entries); i++ {
		if r.entries[i].Timestamp < r.entries[i-1].Timestamp {
			assert.Fail(r.t, fmt.Sprintf("entry #%d is older than entry #%d", i, i-1))
		}
	}
	return r
}

func (r *LogResult) All(checks ...EntryCheck) *LogResult {
	r.t.Helper()
	for i, e := range r.entries {
		for _, check := range checks {
			if !check.Validate(e) {
				assert.Fail(r.t, fmt.Sprintf("Entry #%d failed check: %s", i, check.Description()),
					"Entry: %v", e)
			}
		}
	}
	return r
}

func (r *LogResult) Any(checks ...EntryCheck) *LogResult {
	r.t.Helper()
	for _, e := range r.entries {
		matched := true
		for _, check := range checks {
			if !check.Validate(e) {
				matched = false
				break
			}
		}
		if matched {
			return r
		}
	}
	assert.Fail(r.t, "No entry matched all checks", describe(checks))
	return r
}

func (r *LogResult) None(checks ...EntryCheck) *LogResult {
	r.t.Helper()
	for i, e := range r.entries {
		for _, check := range checks {
			if check.Validate(e) {
				assert.Fail(r.t, fmt.Sprintf("Entry #%d unexpectedly matched: %s", i, check.Description()),
					"Entry: %v", e)
			}
		}
	}
	return r
}

// EntryCheck is a predicate over one entry.
type EntryCheck interface {
	Validate(e client.LogEntry) bool
	Description() string
}

type simpleCheck struct {
	validate    func(client.LogEntry) bool
	description string
}

func (c simpleCheck) Validate(e client.LogEntry) bool { return c.validate(e) }
func (c simpleCheck) Description() string             { return c.description }

func describe(checks []EntryCheck) string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Description()
	}
	return strings.Join(names, ", ")
}

func MessageContains(substring string) EntryCheck {
	return simpleCheck{
		validate:    func(e client.LogEntry) bool { return strings.Contains(e.Message, substring) },
		description: fmt.Sprintf("message contains %q", substring),
	}
}

func DateBetween(start, end time.Time) EntryCheck {
	return simpleCheck{
		validate: func(e client.LogEntry) bool {
			ts := e.Time()
			return !ts.Before(start) && !ts.After(end)
		},
		description: fmt.Sprintf("timestamp between %s and %s", start.Format(time.RFC3339), end.Format(time.RFC3339)),
	}
}
