package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/bascanada/lambdalogs/pkg/log/client"
)

// TimestampLayout is used for every printed timestamp.
const TimestampLayout = "2006-01-02 15:04:05.000"

var (
	levelRegex   = regexp.MustCompile(`\b(ERROR|FATAL|CRITICAL|WARN|WARNING|INFO|DEBUG|TRACE)\b`)
	runtimeRegex = regexp.MustCompile(`^(START|END|REPORT) RequestId:`)
)

// PrintOptions configures non-interactive printing.
type PrintOptions struct {
	// JSON prints one JSON object per entry.
	JSON bool
	// Expand pretty-prints structured messages on the following lines.
	Expand bool
	// Function is shown before each message when set.
	Function string
}

// FormatTimestamp renders epoch milliseconds in local time.
func FormatTimestamp(ms int64) string {
	return client.LogEntry{Timestamp: ms}.Time().Format(TimestampLayout)
}

// HighlightLevel colors the first level keyword found in a line.
func HighlightLevel(line string) string {
	loc := levelRegex.FindStringIndex(line)
	if loc == nil {
		return line
	}
	return line[:loc[0]] + ColorLevel(line[loc[0]:loc[1]]) + line[loc[1]:]
}

// DetectLevel returns the first level keyword of a line. Lambda runtime
// lines return START, END or REPORT. Empty when nothing matches.
func DetectLevel(line string) string {
	if m := runtimeRegex.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return levelRegex.FindString(line)
}

// PrintEntries writes entries to w.
func PrintEntries(w io.Writer, entries []client.LogEntry, options PrintOptions) error {
	if options.JSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	}

	for _, e := range entries {
		msg := ParseMessage(e.Message)

		var b strings.Builder
		b.WriteString("[")
		b.WriteString(ColorTimestamp(FormatTimestamp(e.Timestamp)))
		b.WriteString("] ")
		if options.Function != "" {
			b.WriteString("[")
			b.WriteString(ColorContext(options.Function))
			b.WriteString("] ")
		}
		b.WriteString(HighlightLevel(msg.Summary()))
		b.WriteString("\n")

		if options.Expand && msg.Kind == Structured {
			for _, l := range msg.ColoredLines() {
				b.WriteString("    ")
				b.WriteString(l)
				b.WriteString("\n")
			}
		}

		if _, err := fmt.Fprint(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
