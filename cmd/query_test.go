package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/printer"
	"github.com/bascanada/lambdalogs/pkg/tui"
)

var queryNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestResolveTimeRange(t *testing.T) {
	t.Run("last", func(t *testing.T) {
		tr, err := resolveTimeRange(queryNow, "", "", "15m")
		require.NoError(t, err)
		assert.Equal(t, queryNow.Add(-15*time.Minute), tr.From)
		assert.Equal(t, queryNow, tr.To)
	})

	t.Run("from duration to now", func(t *testing.T) {
		tr, err := resolveTimeRange(queryNow, "2h", "", "1h")
		require.NoError(t, err)
		assert.Equal(t, queryNow.Add(-2*time.Hour), tr.From)
		assert.Equal(t, queryNow, tr.To)
	})

	t.Run("rfc3339 bounds", func(t *testing.T) {
		tr, err := resolveTimeRange(queryNow, "2024-03-01T08:00:00Z", "2024-03-01T10:00:00Z", "1h")
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, tr.To.Sub(tr.From))
	})

	tests := []struct {
		name     string
		from, to string
		last     string
	}{
		{"from after to", "2024-03-01T10:00:00Z", "2024-03-01T08:00:00Z", "1h"},
		{"to without from", "", "2024-03-01T08:00:00Z", "1h"},
		{"bad last", "", "", "yesterday"},
		{"negative last", "", "", "-1h"},
		{"bad from", "last tuesday", "", "1h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveTimeRange(queryNow, tt.from, tt.to, tt.last)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tui.ErrInvalidRange))
		})
	}
}

func TestRunQuery(t *testing.T) {
	mockClient := &client.MockLogClient{
		Entries: []client.LogEntry{
			{Timestamp: queryNow.UnixMilli(), Message: "ERROR payment declined"},
			{Timestamp: queryNow.UnixMilli() + 1, Message: "INFO order created"},
			{Timestamp: queryNow.UnixMilli() + 2, Message: `{"level":"ERROR","msg":"timeout"}`},
		},
	}
	tr := client.Last(queryNow, time.Hour)

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		err := RunQuery(context.Background(), &buf, mockClient, "orders-api", tr, "", printer.PrintOptions{})
		assert.NoError(t, err)

		output := buf.String()
		assert.Equal(t, 3, strings.Count(output, "\n"))
		assert.Contains(t, output, "payment declined")
		assert.Contains(t, output, "order created")
	})

	t.Run("filtered json output", func(t *testing.T) {
		var buf bytes.Buffer
		err := RunQuery(context.Background(), &buf, mockClient, "orders-api", tr, "error", printer.PrintOptions{JSON: true})
		assert.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		var entry client.LogEntry
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
		assert.Equal(t, `{"level":"ERROR","msg":"timeout"}`, entry.Message)
	})

	t.Run("fetch arguments", func(t *testing.T) {
		fetches := mockClient.Fetches()
		require.NotEmpty(t, fetches)
		assert.Equal(t, "orders-api", fetches[0].Function)
		assert.Equal(t, tr.From, fetches[0].From)
		assert.Equal(t, tr.To, fetches[0].To)
	})

	t.Run("fetch error", func(t *testing.T) {
		failing := &client.MockLogClient{
			OnFetchLogs: func(context.Context, string, time.Time, time.Time) ([]client.LogEntry, error) {
				return nil, client.NewFetchError(client.OpFetchLogs, "prod", "orders-api", errors.New("throttled"))
			},
		}
		var buf bytes.Buffer
		err := RunQuery(context.Background(), &buf, failing, "orders-api", tr, "", printer.PrintOptions{})
		assert.ErrorIs(t, err, client.ErrRemoteFetch)
		assert.Empty(t, buf.String())
	})
}

func TestRunFunctions(t *testing.T) {
	mockClient := &client.MockLogClient{
		Functions: []string{"billing-worker", "orders-api", "orders-worker"},
	}

	t.Run("filter", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RunFunctions(context.Background(), &buf, mockClient, "orders worker", false))
		assert.Equal(t, "orders-worker\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RunFunctions(context.Background(), &buf, mockClient, "nothing", true))
		assert.JSONEq(t, `[]`, buf.String())
	})
}

func TestRunProfiles(t *testing.T) {
	var buf bytes.Buffer
	err := RunProfiles(&buf, []client.Profile{
		{Name: "prod", Region: "eu-west-1", Source: "config"},
		{Name: "dev", Source: "aws-credentials"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "REGION", "SOURCE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"prod", "eu-west-1", "config"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"dev", "-", "aws-credentials"}, strings.Fields(lines[2]))
}
