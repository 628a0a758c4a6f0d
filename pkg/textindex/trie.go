// Package textindex implements the prefix trie behind live auto-completion.
// The index is built once at startup and is thereafter read-only, so
// concurrent lookups need no locking.
package textindex

import (
	"sort"
	"strings"
)

// DefaultMinPrefix is the shortest prefix that produces suggestions.
const DefaultMinPrefix = 2

type node struct {
	children map[byte]*node
	terminal bool
	// phrase keeps the original, case-preserved spelling at terminal nodes.
	phrase string
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Trie stores a vocabulary of phrases keyed by their lowercase characters.
type Trie struct {
	root      *node
	count     int
	minPrefix int
}

// New creates an empty trie with the default minimum prefix length.
func New() *Trie {
	return &Trie{root: newNode(), minPrefix: DefaultMinPrefix}
}

// NewWithMinPrefix creates an empty trie with a custom minimum prefix length.
func NewWithMinPrefix(min int) *Trie {
	if min < 1 {
		min = 1
	}
	return &Trie{root: newNode(), minPrefix: min}
}

// Insert adds a phrase to the vocabulary. The path is the lowercased phrase;
// the terminal node retains the original spelling. O(len(phrase)).
func (t *Trie) Insert(phrase string) {
	trimmed := strings.TrimSpace(phrase)
	if trimmed == "" {
		return
	}

	cur := t.root
	for _, c := range []byte(strings.ToLower(trimmed)) {
		next, ok := cur.children[c]
		if !ok {
			next = newNode()
			cur.children[c] = next
		}
		cur = next
	}

	if !cur.terminal {
		cur.terminal = true
		cur.phrase = trimmed
		t.count++
	}
}

// Contains reports whether the exact phrase was inserted.
func (t *Trie) Contains(phrase string) bool {
	n := t.find(strings.ToLower(strings.TrimSpace(phrase)))
	return n != nil && n.terminal
}

// Suggestions returns up to limit phrases starting with prefix.
// It fails softly: prefixes shorter than the configured minimum, or prefixes
// matching no stored path, yield an empty slice. Traversal over children is
// byte-ascending so results are reproducible across runs.
func (t *Trie) Suggestions(prefix string, limit int) []string {
	cleaned := strings.ToLower(strings.TrimSpace(prefix))
	if len(cleaned) < t.minPrefix || limit <= 0 {
		return []string{}
	}

	start := t.find(cleaned)
	if start == nil {
		return []string{}
	}

	out := make([]string, 0, limit)
	collect(start, limit, &out)
	return out
}

// Len returns the number of stored phrases.
func (t *Trie) Len() int {
	return t.count
}

// MinPrefix returns the minimum prefix length for lookups.
func (t *Trie) MinPrefix() int {
	return t.minPrefix
}

func (t *Trie) find(path string) *node {
	cur := t.root
	for _, c := range []byte(path) {
		next, ok := cur.children[c]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func collect(n *node, limit int, out *[]string) {
	if len(*out) >= limit {
		return
	}
	if n.terminal {
		*out = append(*out, n.phrase)
	}

	keys := make([]byte, 0, len(n.children))
	for c := range n.children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, c := range keys {
		if len(*out) >= limit {
			return
		}
		collect(n.children[c], limit, out)
	}
}
