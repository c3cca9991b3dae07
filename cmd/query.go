package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bascanada/lambdalogs/pkg/log"
	"github.com/bascanada/lambdalogs/pkg/log/client"
	"github.com/bascanada/lambdalogs/pkg/log/printer"
	"github.com/bascanada/lambdalogs/pkg/tui"
	"github.com/bascanada/lambdalogs/pkg/ty"
)

var queryCommand = &cobra.Command{
	Use:   "query",
	Short: "Print the logs of a function",
	Long: `Fetch the logs of a function for a time range and print them.

Time values accept a duration (1h, 30m) meaning that long ago, HH:MM for
today, "YYYY-MM-DD HH:MM" in local time or RFC3339.

Examples:
  # Last hour of logs
  lambdalogs query -p prod -f orders-api

  # Errors of a custom range, JSON documents expanded
  lambdalogs query -p prod -f orders-api --from "2024-03-01 08:00" --to "2024-03-01 10:00" --filter error --expand

  # NDJSON for jq
  lambdalogs query -p prod -f orders-api --last 15m --json | jq .message`,
	PreRun:       onCommandStart,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := resolveTimeRange(time.Now(), from, to, last)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		c, profile, err := getClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		log.Info("query profile=%s function=%s from=%s to=%s", profile.Name, functionName,
			tr.From.Format(time.RFC3339), tr.To.Format(time.RFC3339))

		return RunQuery(cmd.Context(), os.Stdout, c, functionName, tr, filterText, printer.PrintOptions{
			JSON:   jsonOutput,
			Expand: expand,
		})
	},
}

func init() {
	addProfileFlags(queryCommand)
	queryCommand.Flags().StringVarP(&functionName, "function", "f", "", "function to read the logs of")
	_ = queryCommand.MarkFlagRequired("function")
	queryCommand.Flags().StringVar(&last, "last", "1h", "duration of the range ending now, ignored with --from")
	queryCommand.Flags().StringVar(&from, "from", "", "start of the range")
	queryCommand.Flags().StringVar(&to, "to", "", "end of the range, defaults to now")
	queryCommand.Flags().StringVar(&filterText, "filter", "", "keep entries containing every keyword")
	queryCommand.Flags().BoolVar(&jsonOutput, "json", false, "output one JSON object per entry")
	queryCommand.Flags().BoolVar(&expand, "expand", false, "pretty-print JSON messages")
}

// resolveTimeRange builds the range of the query flags. A range ending
// before it starts is an error, the bounds are never swapped.
func resolveTimeRange(now time.Time, fromValue, toValue, lastValue string) (client.TimeRange, error) {
	if strings.TrimSpace(fromValue) == "" {
		if toValue != "" {
			return client.TimeRange{}, fmt.Errorf("%w: --to needs --from", tui.ErrInvalidRange)
		}
		d, err := time.ParseDuration(lastValue)
		if err != nil || d <= 0 {
			return client.TimeRange{}, fmt.Errorf("%w: --last %q is not a positive duration", tui.ErrInvalidRange, lastValue)
		}
		return client.Last(now, d), nil
	}

	start, err := ty.ParseTimeValue(fromValue, now)
	if err != nil {
		return client.TimeRange{}, fmt.Errorf("%w: --from: %v", tui.ErrInvalidRange, err)
	}
	end := now
	if strings.TrimSpace(toValue) != "" {
		end, err = ty.ParseTimeValue(toValue, now)
		if err != nil {
			return client.TimeRange{}, fmt.Errorf("%w: --to: %v", tui.ErrInvalidRange, err)
		}
	}
	if start.After(end) {
		return client.TimeRange{}, fmt.Errorf("%w: from %s is after to %s", tui.ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return client.TimeRange{From: start, To: end}, nil
}

// RunQuery fetches the logs of function, keeps the entries matching filter
// and prints them.
func RunQuery(ctx context.Context, w io.Writer, c client.LogClient, function string, tr client.TimeRange, filter string, options printer.PrintOptions) error {
	entries, err := c.FetchLogs(ctx, function, tr.From, tr.To)
	if err != nil {
		return err
	}

	keywords := client.ParseKeywordFilter(filter)
	if !keywords.Empty() {
		indices := client.FilterIndices(entries, func(e client.LogEntry) string { return e.Message }, keywords)
		kept := make([]client.LogEntry, len(indices))
		for i, idx := range indices {
			kept[i] = entries[idx]
		}
		entries = kept
	}

	log.Debug("query printing %d entries", len(entries))

	return printer.PrintEntries(w, entries, options)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
