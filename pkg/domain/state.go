package domain

// State is the per-session snapshot of the conversation.
// It is the only mutable shared data in the system and is always read and
// written under the session manager's lock.
type State struct {
	// SessionID identifies the owning conversation.
	SessionID string `json:"session_id,omitempty"`

	// CurrentNodeID is the identifier of the active dialogue node.
	CurrentNodeID string `json:"current_node_id"`

	// History is the bounded trail of previously visited node ids,
	// oldest first. The engine enforces the depth bound on push.
	History []string `json:"history,omitempty"`
}

// NewState creates a clean state positioned at the given root node.
func NewState(rootNodeID string) *State {
	return &State{
		CurrentNodeID: rootNodeID,
		History:       []string{},
	}
}

// Clone returns an independent copy so stores and callers cannot alias
// each other's history slice.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]string, len(s.History))
	copy(next.History, s.History)
	return &next
}
