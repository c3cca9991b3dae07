package client

import (
	"strings"
)

// KeywordFilter matches text containing every keyword, case-insensitively.
// The zero value matches everything.
type KeywordFilter struct {
	keywords []string
}

// ParseKeywordFilter splits text on whitespace into lowercase keywords.
func ParseKeywordFilter(text string) KeywordFilter {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return KeywordFilter{}
	}
	return KeywordFilter{keywords: fields}
}

// Empty is true when the filter retains everything.
func (f KeywordFilter) Empty() bool {
	return len(f.keywords) == 0
}

// Keywords returns a copy of the parsed keywords.
func (f KeywordFilter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}

// Match reports whether every keyword is a substring of s.
func (f KeywordFilter) Match(s string) bool {
	if len(f.keywords) == 0 {
		return true
	}
	lower := strings.ToLower(s)
	for _, k := range f.keywords {
		if !strings.Contains(lower, k) {
			return false
		}
	}
	return true
}

// FilterIndices returns the indices of items whose text matches, in order.
func FilterIndices[T any](items []T, text func(T) string, f KeywordFilter) []int {
	out := make([]int, 0, len(items))
	for i, item := range items {
		if f.Match(text(item)) {
			out = append(out, i)
		}
	}
	return out
}

// FilterStrings keeps the strings that match, in order.
func FilterStrings(items []string, f KeywordFilter) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
