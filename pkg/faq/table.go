// Package faq provides the direct-answer lookup consulted after synonym
// resolution and before the dialogue advance. It is a flat keyword map:
// every trigger keyword points at its entry, so a lookup is one or a few
// hash probes, never a scan.
package faq

import "strings"

// Entry is one canned answer with its trigger keywords and category.
type Entry struct {
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
	Category string   `yaml:"category"`
}

// Match is a successful lookup: the entry plus the keyword that hit.
type Match struct {
	Response       string
	Category       string
	MatchedKeyword string
}

// Table maps keywords to entries.
type Table struct {
	byKeyword map[string]*Entry
	entries   int
}

// NewTable creates an empty FAQ table.
func NewTable() *Table {
	return &Table{byKeyword: make(map[string]*Entry)}
}

// Add registers an entry under all of its keywords. Later entries win on
// keyword collision, matching the seeding order of the configuration.
func (t *Table) Add(entry Entry) {
	e := entry
	for _, kw := range e.Keywords {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			continue
		}
		t.byKeyword[key] = &e
	}
	t.entries++
}

// Lookup tries the whole query first, then each whitespace token.
// Returns nil when nothing matches.
func (t *Table) Lookup(query string) *Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	if e, ok := t.byKeyword[q]; ok {
		return &Match{Response: e.Response, Category: e.Category, MatchedKeyword: q}
	}

	for _, word := range strings.Fields(q) {
		if e, ok := t.byKeyword[word]; ok {
			return &Match{Response: e.Response, Category: e.Category, MatchedKeyword: word}
		}
	}
	return nil
}

// Keywords returns the number of registered trigger keywords.
func (t *Table) Keywords() int {
	return len(t.byKeyword)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return t.entries
}
