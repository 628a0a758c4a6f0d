package domain

// SuggestionEdge is a weighted directed edge in the next-action graph.
// Edges for a given source keep their insertion order, which is the
// tie-break key when weights are equal.
type SuggestionEdge struct {
	Target string  `json:"target" yaml:"target"`
	Weight float64 `json:"weight" yaml:"weight"`
	Label  string  `json:"label" yaml:"label"`
}

// Suggestion is a ranked next-action proposal returned to the caller.
type Suggestion struct {
	Label  string  `json:"label"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}
