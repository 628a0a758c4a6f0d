// Package suggest ranks next-action proposals from a static weighted
// adjacency. Weights are opaque reals used purely for presentation order;
// they are not probabilities and need not sum to one.
package suggest

import (
	"sort"

	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
)

// Graph is a directed weighted adjacency of node id to outgoing edges.
// Edges keep insertion order per source, which is the tie-break key for
// equal weights. Built once at startup; read-only afterwards.
type Graph struct {
	edges map[string][]domain.SuggestionEdge
}

// NewGraph creates an empty suggestion graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[string][]domain.SuggestionEdge)}
}

// AddEdge appends a weighted edge from source. Zero and negative weights
// are legal and simply rank low.
func (g *Graph) AddEdge(source, target string, weight float64, label string) {
	if label == "" {
		label = target
	}
	g.edges[source] = append(g.edges[source], domain.SuggestionEdge{
		Target: target,
		Weight: weight,
		Label:  label,
	})
}

// Suggestions returns up to topK edges from nodeID sorted by weight
// descending, with ties broken by insertion order. Unknown nodes and nodes
// without outgoing edges yield an empty slice.
func (g *Graph) Suggestions(nodeID string, topK int) []domain.Suggestion {
	edges, ok := g.edges[nodeID]
	if !ok || len(edges) == 0 || topK <= 0 {
		return []domain.Suggestion{}
	}

	ranked := make([]domain.SuggestionEdge, len(edges))
	copy(ranked, edges)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}

	out := make([]domain.Suggestion, 0, topK)
	for _, e := range ranked[:topK] {
		out = append(out, domain.Suggestion{
			Label:  e.Label,
			Target: e.Target,
			Weight: e.Weight,
		})
	}
	return out
}

// Neighbors returns the targets reachable from nodeID in insertion order.
func (g *Graph) Neighbors(nodeID string) []string {
	edges := g.edges[nodeID]
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Target)
	}
	return out
}

// Len returns the number of sources with outgoing edges.
func (g *Graph) Len() int {
	return len(g.edges)
}
