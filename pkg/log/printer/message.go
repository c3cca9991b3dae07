package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
)

// MessageKind tells how a log message is rendered.
type MessageKind int

const (
	// Plain messages are shown line by line as received.
	Plain MessageKind = iota
	// Structured messages are JSON objects or arrays, pretty-printed.
	Structured
)

// IndentWidth is the number of spaces per nesting level of structured messages.
const IndentWidth = 2

// Message is a log message parsed once: either plain text or a JSON
// document with its pretty-printed lines.
type Message struct {
	Kind    MessageKind
	Raw     string
	doc     interface{}
	lines   []string
	colored *coloredLines
}

// coloredLines is shared by the copies of a Message so the highlighting is
// computed at most once per entry.
type coloredLines struct {
	once  sync.Once
	lines []string
}

// ParseMessage classifies raw and computes its lines.
func ParseMessage(raw string) Message {
	if doc, pretty, ok := parseDocument(raw); ok {
		return Message{Kind: Structured, Raw: raw, doc: doc, lines: splitLines(pretty), colored: &coloredLines{}}
	}
	return Message{Kind: Plain, Raw: raw, lines: splitLines(raw)}
}

// Lines returns the rendered lines, without colors.
func (m Message) Lines() []string {
	return m.lines
}

// LineCount is the number of rendered lines. Zero for an empty plain message.
func (m Message) LineCount() int {
	return len(m.lines)
}

// ColoredLines returns the lines with JSON highlighting when colors are
// enabled. They always have the same count as Lines.
func (m Message) ColoredLines() []string {
	if m.Kind != Structured || m.colored == nil || !IsColorEnabled() {
		return m.lines
	}
	m.colored.once.Do(func() {
		m.colored.lines = m.highlight()
	})
	return m.colored.lines
}

func (m Message) highlight() []string {
	f := colorjson.NewFormatter()
	f.Indent = IndentWidth
	out, err := f.Marshal(m.doc)
	if err != nil {
		return m.lines
	}
	colored := splitLines(string(out))
	if len(colored) != len(m.lines) {
		return m.lines
	}
	return colored
}

// Summary is the message on a single line, for list rows.
func (m Message) Summary() string {
	s := strings.TrimSpace(m.Raw)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// parseDocument returns the decoded document and its canonical indented
// form. Key order is sorted so colored and plain output agree.
func parseDocument(raw string) (interface{}, string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, "", false
	}
	if !json.Valid([]byte(trimmed)) {
		return nil, "", false
	}

	var numbers interface{}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&numbers); err != nil {
		return nil, "", false
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", IndentWidth))
	if err := enc.Encode(numbers); err != nil {
		return nil, "", false
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, "", false
	}

	return doc, strings.TrimSuffix(buf.String(), "\n"), true
}

// splitLines splits on \n, drops a trailing \r on each line and ignores a
// single final newline. An empty string has no line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
