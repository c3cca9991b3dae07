// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/factory"
)

var testProfiles = []client.Profile{
	{Name: "dev", Region: "us-east-1"},
	{Name: "prod", Region: "eu-west-1"},
}

func newTestModel(t *testing.T, mock *client.MockLogClient) Model {
	t.Helper()
	f := factory.NewLogClientFactory(func(_ context.Context, _ client.Profile) (client.LogClient, error) {
		return mock, nil
	})
	m := New(testProfiles, f)
	m.Now = fixedClock
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and returns the model and the command it produced.
func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// result runs cmd and returns the first message that is not a spinner
// tick, expanding batches.
func result(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if r := c(); r != nil {
				if _, tick := r.(spinner.TickMsg); !tick {
					return r
				}
			}
		}
		return nil
	}
	return msg
}

// confirm presses enter and applies the fetch result.
func confirm(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(t, m, keyType(tea.KeyEnter))
	if cmd == nil {
		return m
	}
	return update(t, m, result(t, cmd))
}

func toLogViewer(t *testing.T, mock *client.MockLogClient) Model {
	t.Helper()
	m := newTestModel(t, mock)
	m = confirm(t, m)
	require.Equal(t, FunctionList, m.State())
	m = confirm(t, m)
	require.Equal(t, DateSelection, m.State())
	m = confirm(t, m)
	require.Equal(t, LogViewer, m.State())
	return m
}

func TestModel_ForwardNavigation(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api", "billing-worker"},
		Entries:   entriesOf("error A", "warn B", "error B"),
	}
	m := newTestModel(t, mock)
	assert.Equal(t, ProfileSelection, m.State())

	m, cmd := press(t, m, keyType(tea.KeyDown))
	assert.Nil(t, cmd)
	m, cmd = press(t, m, keyType(tea.KeyEnter))
	assert.True(t, m.Loading())
	assert.Equal(t, ProfileSelection, m.State(), "state changes when the result arrives")

	m = update(t, m, result(t, cmd))
	assert.False(t, m.Loading())
	assert.Equal(t, FunctionList, m.State())
	assert.Equal(t, 1, mock.Lists())
	assert.Equal(t, "prod", m.profile.Name)

	m = update(t, m, runes("bill"))
	m = confirm(t, m)
	assert.Equal(t, DateSelection, m.State())
	assert.Equal(t, "billing-worker", m.function)

	m = confirm(t, m)
	require.Equal(t, LogViewer, m.State())

	fetches := mock.Fetches()
	require.Len(t, fetches, 1)
	assert.Equal(t, "billing-worker", fetches[0].Function)
	assert.Equal(t, fixedNow.Add(-time.Hour), fetches[0].From)
	assert.Equal(t, fixedNow, fetches[0].To)

	s := m.Snapshot()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 3, s.Filtered)
	assert.Equal(t, 0, s.Selected)
}

func TestModel_BackwardNavigationDiscards(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   entriesOf("error A"),
	}
	m := toLogViewer(t, mock)

	m, _ = press(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, DateSelection, m.State())
	assert.Nil(t, m.Browser())

	m, _ = press(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, FunctionList, m.State())
	assert.Nil(t, m.Dates())

	m, _ = press(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, ProfileSelection, m.State())
	assert.Nil(t, m.Functions())

	_, cmd := press(t, m, keyType(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ReenteringLogsFetchesAgain(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   entriesOf("first"),
	}
	m := toLogViewer(t, mock)
	m = update(t, m, runes("first"))

	mock.Entries = entriesOf("second", "third")
	m, _ = press(t, m, keyType(tea.KeyEsc))
	m = confirm(t, m)

	require.Equal(t, LogViewer, m.State())
	assert.Len(t, mock.Fetches(), 2)
	assert.Equal(t, 2, m.Browser().Total(), "no stale collection reused")
	assert.Equal(t, "", m.Browser().Filter())
}

func TestModel_FetchErrorKeepsState(t *testing.T) {
	boom := errors.New("AccessDeniedException")
	mock := &client.MockLogClient{
		OnListFunctions: func(context.Context) ([]string, error) { return nil, boom },
	}
	m := newTestModel(t, mock)
	m = update(t, m, keyType(tea.KeyDown))

	m = confirm(t, m)
	assert.Equal(t, ProfileSelection, m.State())
	assert.False(t, m.Loading())
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), client.ErrRemoteFetch)
	assert.ErrorIs(t, m.Err(), boom)
	assert.Equal(t, 1, m.Snapshot().Selected, "selection untouched")

	mock.OnListFunctions = nil
	mock.Functions = []string{"orders-api"}
	m = confirm(t, m)
	assert.Equal(t, FunctionList, m.State(), "re-confirming retries")
	assert.NoError(t, m.Err())
}

func TestModel_LogFetchError(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		OnFetchLogs: func(context.Context, string, time.Time, time.Time) ([]client.LogEntry, error) {
			return nil, errors.New("ThrottlingException")
		},
	}
	m := newTestModel(t, mock)
	m = confirm(t, m)
	m = confirm(t, m)
	m = confirm(t, m)

	assert.Equal(t, DateSelection, m.State())
	var fetchErr *client.FetchError
	require.ErrorAs(t, m.Err(), &fetchErr)
	assert.Equal(t, client.OpFetchLogs, fetchErr.Op)
	assert.Equal(t, "orders-api", fetchErr.Function)
	assert.NotNil(t, m.Dates())
}

func TestModel_InvalidRangeBlocksTransition(t *testing.T) {
	mock := &client.MockLogClient{Functions: []string{"orders-api"}}
	m := newTestModel(t, mock)
	m = confirm(t, m)
	m = confirm(t, m)

	m = update(t, m, runes("2"))
	m = update(t, m, keyType(tea.KeySpace))
	require.True(t, m.Dates().Editing())
	m = update(t, m, keyType(tea.KeyUp)) // from date is tomorrow

	m, cmd := press(t, m, keyType(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, DateSelection, m.State())
	assert.ErrorIs(t, m.Err(), ErrInvalidRange)
	assert.Empty(t, mock.Fetches())
	assert.Contains(t, m.View(), "invalid time range")
}

func TestModel_StaleResultDiscarded(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   entriesOf("late"),
	}
	m := newTestModel(t, mock)
	m = confirm(t, m)
	m = confirm(t, m)

	m, cmd := press(t, m, keyType(tea.KeyEnter))
	require.True(t, m.Loading())
	stale := result(t, cmd)

	m, _ = press(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, FunctionList, m.State())
	assert.False(t, m.Loading())

	m = update(t, m, stale)
	assert.Equal(t, FunctionList, m.State(), "result of a cancelled fetch is dropped")
	assert.Nil(t, m.Browser())
}

func TestModel_SupersededRequest(t *testing.T) {
	mock := &client.MockLogClient{Functions: []string{"orders-api"}}
	m := newTestModel(t, mock)

	m, first := press(t, m, keyType(tea.KeyEnter))
	m = update(t, m, keyType(tea.KeyDown))
	m, second := press(t, m, keyType(tea.KeyEnter))

	firstMsg := result(t, first)
	secondMsg := result(t, second)

	m = update(t, m, firstMsg)
	assert.Equal(t, ProfileSelection, m.State())
	assert.True(t, m.Loading())

	m = update(t, m, secondMsg)
	assert.Equal(t, FunctionList, m.State())
	assert.Equal(t, "prod", m.profile.Name)
}

func TestModel_CancelledContext(t *testing.T) {
	started := make(chan struct{})
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		OnFetchLogs: func(ctx context.Context, _ string, _, _ time.Time) ([]client.LogEntry, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	m := newTestModel(t, mock)
	m = confirm(t, m)
	m = confirm(t, m)

	m, cmd := press(t, m, keyType(tea.KeyEnter))
	done := make(chan tea.Msg, 1)
	go func() { done <- result(t, cmd) }()

	<-started
	m, _ = press(t, m, keyType(tea.KeyEsc))

	select {
	case msg := <-done:
		errMsg, ok := msg.(FetchErrorMsg)
		require.True(t, ok)
		assert.ErrorIs(t, errMsg.Err, context.Canceled)
		m = update(t, m, msg)
		assert.NoError(t, m.Err(), "errors of cancelled requests are not shown")
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not cancelled")
	}
}

func TestModel_FetchTimeout(t *testing.T) {
	t.Run("back cancels a bounded fetch", func(t *testing.T) {
		started := make(chan bool)
		mock := &client.MockLogClient{
			Functions: []string{"orders-api"},
			OnFetchLogs: func(ctx context.Context, _ string, _, _ time.Time) ([]client.LogEntry, error) {
				_, hasDeadline := ctx.Deadline()
				started <- hasDeadline
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		m := newTestModel(t, mock)
		m.FetchTimeout = time.Hour
		m = confirm(t, m)
		m = confirm(t, m)

		m, cmd := press(t, m, keyType(tea.KeyEnter))
		done := make(chan tea.Msg, 1)
		go func() { done <- result(t, cmd) }()

		assert.True(t, <-started, "fetch context carries the timeout")
		_, _ = press(t, m, keyType(tea.KeyEsc))

		select {
		case msg := <-done:
			errMsg, ok := msg.(FetchErrorMsg)
			require.True(t, ok)
			assert.ErrorIs(t, errMsg.Err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("fetch was not cancelled")
		}
	})

	t.Run("expired fetch is reported", func(t *testing.T) {
		mock := &client.MockLogClient{
			Functions: []string{"orders-api"},
			OnFetchLogs: func(ctx context.Context, _ string, _, _ time.Time) ([]client.LogEntry, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		m := newTestModel(t, mock)
		m.FetchTimeout = 10 * time.Millisecond
		m = confirm(t, m)
		m = confirm(t, m)

		m, cmd := press(t, m, keyType(tea.KeyEnter))
		m = update(t, m, result(t, cmd))

		assert.Equal(t, DateSelection, m.State())
		assert.False(t, m.Loading())
		require.Error(t, m.Err())
		assert.ErrorIs(t, m.Err(), context.DeadlineExceeded)
	})
}

func TestModel_LogViewerKeys(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   numberedEntries(40),
	}
	m := toLogViewer(t, mock)
	h := m.visibleHeight()
	require.Equal(t, 22, h)

	m = update(t, m, keyType(tea.KeyPgDown))
	assert.Equal(t, 10, m.Snapshot().Selected)
	m = update(t, m, keyType(tea.KeyPgDown))
	m = update(t, m, keyType(tea.KeyPgDown))
	s := m.Snapshot()
	assert.Equal(t, 30, s.Selected)
	assert.Equal(t, 30-h+1, s.ListOffset)

	m = update(t, m, keyType(tea.KeyEnter))
	assert.True(t, m.Snapshot().Expanded)

	m = update(t, m, runes("x"))
	assert.Equal(t, "", m.Snapshot().Filter, "typing is ignored while expanded")

	m = update(t, m, keyType(tea.KeyDown))
	assert.Equal(t, 30, m.Snapshot().Selected, "arrows scroll the content while expanded")

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m = update(t, m, keyType(tea.KeyEnter))
	m = update(t, m, runes("entry 3"))
	s = m.Snapshot()
	assert.Equal(t, "entry 3", s.Filter)
	assert.Equal(t, 13, s.Filtered, "entry 3, 13, 23 and 30 to 39")
	assert.Equal(t, 0, s.Selected)

	m = update(t, m, keyType(tea.KeyBackspace))
	assert.Equal(t, "entry ", m.Snapshot().Filter)
	assert.Equal(t, 40, m.Snapshot().Filtered)
}

func TestModel_TypingSpaceInFilter(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   entriesOf("error A", "warn B", "error B"),
	}
	m := toLogViewer(t, mock)

	m = update(t, m, runes("error"))
	m = update(t, m, keyType(tea.KeySpace))
	m = update(t, m, runes("b"))

	s := m.Snapshot()
	assert.Equal(t, "error b", s.Filter)
	assert.Equal(t, 1, s.Filtered)
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(t, &client.MockLogClient{})

	_, cmd := press(t, m, keyType(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m, cmd = press(t, m, runes("q"))
	assert.Nil(t, cmd, "q is typed into the profile filter")
	assert.Equal(t, "q", m.Snapshot().Filter)
}

func TestModel_ResizeRecenters(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   numberedEntries(100),
	}
	m := toLogViewer(t, mock)
	for i := 0; i < 50; i++ {
		m = update(t, m, keyType(tea.KeyDown))
	}
	assert.Equal(t, 50-22+1, m.Snapshot().ListOffset)

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 18})
	s := m.Snapshot()
	assert.Equal(t, 45, s.ListOffset, "recentered on a 10 row viewport")
	assert.Equal(t, Window{45, 55}, s.Centered)
	assert.Equal(t, s.Centered, s.Window)
}

func TestModel_ProfilesReload(t *testing.T) {
	m := newTestModel(t, &client.MockLogClient{})

	changes := make(chan struct{}, 1)
	m.ProfileChanges = changes
	m.ReloadProfiles = func(context.Context) ([]client.Profile, error) {
		return []client.Profile{{Name: "dev"}, {Name: "prod"}, {Name: "staging"}}, nil
	}

	cmd := m.Init()
	require.NotNil(t, cmd)
	changes <- struct{}{}
	msg := cmd()

	m = update(t, m, msg)
	assert.Equal(t, 3, m.Snapshot().Total)
}

func TestModel_ProfilesReloadDeferredOutsideProfileSelection(t *testing.T) {
	m := newTestModel(t, &client.MockLogClient{Functions: []string{"orders-api"}})
	m = confirm(t, m)
	require.Equal(t, FunctionList, m.State())

	m = update(t, m, ProfilesChangedMsg{Profiles: []client.Profile{{Name: "other"}}})
	assert.Len(t, m.Profiles().Items(), 2, "list kept while a profile is in use")

	m, _ = press(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, []client.Profile{{Name: "other"}}, m.Profiles().Items())
}

func TestModel_ProfilesReloadError(t *testing.T) {
	m := newTestModel(t, &client.MockLogClient{})

	m = update(t, m, ProfilesChangedMsg{Err: errors.New("parse error")})
	assert.Len(t, m.Profiles().Items(), 2)
	assert.Contains(t, m.status, "parse error")

	m = update(t, m, ClearStatusMsg{ID: m.statusID})
	assert.Empty(t, m.status)
}

func TestModel_ViewPerState(t *testing.T) {
	mock := &client.MockLogClient{
		Functions: []string{"orders-api"},
		Entries:   entriesOf(`{"level":"ERROR","msg":"payment failed"}`, "START RequestId: 8f2c Version: $LATEST"),
	}
	m := newTestModel(t, mock)
	assert.Contains(t, m.View(), "Select a profile")
	assert.Contains(t, m.View(), "eu-west-1")

	m = confirm(t, m)
	assert.Contains(t, m.View(), "orders-api")

	m = confirm(t, m)
	view := m.View()
	assert.Contains(t, view, "Quick range")
	assert.Contains(t, view, "Last 7 days")

	m = confirm(t, m)
	view = m.View()
	assert.Contains(t, view, "payment failed")
	assert.Contains(t, view, "START RequestId")

	m = update(t, m, keyType(tea.KeyEnter))
	view = m.View()
	assert.Contains(t, view, `"msg": "payment failed"`)
	assert.Contains(t, view, "entry 1/2")
}
