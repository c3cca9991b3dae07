package client

import (
	"context"
	"sync"
	"time"
)

// FetchCall records the arguments of a FetchLogs call on MockLogClient.
type FetchCall struct {
	Function string
	From     time.Time
	To       time.Time
}

// MockLogClient implements LogClient for tests.
type MockLogClient struct {
	mu sync.Mutex

	Functions []string
	Entries   []LogEntry

	OnListFunctions func(ctx context.Context) ([]string, error)
	OnFetchLogs     func(ctx context.Context, function string, from, to time.Time) ([]LogEntry, error)

	ListCalls  int
	FetchCalls []FetchCall
}

func (m *MockLogClient) ListFunctions(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.OnListFunctions != nil {
		return m.OnListFunctions(ctx)
	}
	return append([]string(nil), m.Functions...), nil
}

func (m *MockLogClient) FetchLogs(ctx context.Context, function string, from, to time.Time) ([]LogEntry, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, FetchCall{Function: function, From: from, To: to})
	m.mu.Unlock()
	if m.OnFetchLogs != nil {
		return m.OnFetchLogs(ctx, function, from, to)
	}
	return append([]LogEntry(nil), m.Entries...), nil
}

// Fetches returns a copy of the recorded FetchLogs calls.
func (m *MockLogClient) Fetches() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.FetchCalls...)
}

// Lists returns how many times ListFunctions was called.
func (m *MockLogClient) Lists() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls
}
