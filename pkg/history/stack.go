// Package history provides the bounded navigation stack behind the "back"
// command. One stack exists per session and is only touched under the
// session manager's lock.
package history

// DefaultMaxDepth bounds the trail kept for a session.
const DefaultMaxDepth = 10

// Stack is a bounded LIFO of dialogue node ids. When full, pushing evicts
// the oldest (bottom) entry so the most recent trail is preserved even for
// pathologically long sessions.
type Stack struct {
	entries  []string
	maxDepth int
}

// New creates a stack with the default depth bound.
func New() *Stack {
	return NewWithDepth(DefaultMaxDepth)
}

// NewWithDepth creates a stack bounded to maxDepth entries.
func NewWithDepth(maxDepth int) *Stack {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &Stack{
		entries:  make([]string, 0, maxDepth),
		maxDepth: maxDepth,
	}
}

// FromSlice restores a stack from a persisted trail, enforcing the bound.
// Only the newest maxDepth entries survive.
func FromSlice(trail []string, maxDepth int) *Stack {
	s := NewWithDepth(maxDepth)
	start := 0
	if len(trail) > s.maxDepth {
		start = len(trail) - s.maxDepth
	}
	s.entries = append(s.entries, trail[start:]...)
	return s
}

// Push appends a node id, evicting the bottom entry if the stack is full.
func (s *Stack) Push(nodeID string) {
	if len(s.entries) >= s.maxDepth {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, nodeID)
}

// Pop removes and returns the most recent entry.
// The second return is false when the stack is empty.
func (s *Stack) Pop() (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns the most recent entry without removing it.
func (s *Stack) Peek() (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1], true
}

// Size returns the number of entries.
func (s *Stack) Size() int {
	return len(s.entries)
}

// Clear drops all entries.
func (s *Stack) Clear() {
	s.entries = s.entries[:0]
}

// Slice returns the trail oldest-first for persistence.
func (s *Stack) Slice() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}
