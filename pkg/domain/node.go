package domain

// Option is a single keyword-triggered transition out of a dialogue node.
// Options are matched in declaration order; the first hit wins.
type Option struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Target  string `json:"target" yaml:"target"`
}

// Node represents one state of the conversation.
// Nodes are built once at startup and shared read-only across all sessions.
type Node struct {
	ID string `json:"id" yaml:"id"`

	// Prompt is the text the bot speaks when this node becomes current.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Options are the outgoing keyword transitions, in fixed order.
	// The order is the tie-break rule for ambiguous input, so it is part
	// of the dialogue's observable behavior.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Leaf marks terminal nodes. Leaf nodes may have an empty option set
	// and remain navigable via the reserved "menu" and "back" commands.
	Leaf bool `json:"leaf,omitempty" yaml:"leaf,omitempty"`
}
