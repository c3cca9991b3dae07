package client

import (
	"context"
	"time"
)

// LogClient is the contract a log source for one credential profile must
// fulfill.
type LogClient interface {
	// ListFunctions returns the sorted, distinct function names having a log group.
	ListFunctions(ctx context.Context) ([]string, error)
	// FetchLogs returns every event of the function between from and to,
	// fully drained, deduplicated and ordered by timestamp.
	FetchLogs(ctx context.Context, function string, from, to time.Time) ([]LogEntry, error)
}
