// Package dialogue holds the static conversation graph: nodes, their
// prompts and their ordered keyword transitions. The graph is validated and
// frozen at startup; every session walks the same shared instance.
package dialogue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
)

// DefaultRootID is the conventional entry node id.
const DefaultRootID = "root"

// Graph is the immutable set of dialogue nodes.
type Graph struct {
	nodes  map[string]domain.Node
	rootID string
}

// New builds and validates a graph. It fails on malformed configuration:
// a missing root node, a duplicate node id, or a node that has no options
// while not being marked leaf. Dangling transition targets are tolerated
// (they degrade to no-match at runtime) and reported via Dangling.
func New(rootID string, nodes []domain.Node) (*Graph, error) {
	if rootID == "" {
		rootID = DefaultRootID
	}

	g := &Graph{
		nodes:  make(map[string]domain.Node, len(nodes)),
		rootID: rootID,
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("dialogue node with empty id")
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate dialogue node id %q", n.ID)
		}
		g.nodes[n.ID] = n
	}

	if _, ok := g.nodes[rootID]; !ok {
		return nil, fmt.Errorf("root node %q not defined", rootID)
	}

	for id, n := range g.nodes {
		if !n.Leaf && len(n.Options) == 0 {
			return nil, fmt.Errorf("node %q has no options and is not marked leaf", id)
		}
	}

	return g, nil
}

// Node returns the node for id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Root returns the entry node.
func (g *Graph) Root() domain.Node {
	return g.nodes[g.rootID]
}

// RootID returns the entry node id.
func (g *Graph) RootID() string {
	return g.rootID
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// IDs returns all node ids in lexical order, for introspection.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Match scans the node's options in their fixed order and returns the
// target of the first option whose keyword is contained in the input or
// that contains the input. The containment check is deliberately
// bidirectional so short keywords match verbose input and vice versa;
// first match wins, no scoring. A match whose target is not part of the
// graph counts as no match (dangling configuration, recoverable).
func (g *Graph) Match(nodeID, input string) (string, bool) {
	node, ok := g.nodes[nodeID]
	if !ok {
		return "", false
	}

	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return "", false
	}

	for _, opt := range node.Options {
		keyword := strings.ToLower(opt.Keyword)
		if strings.Contains(needle, keyword) || strings.Contains(keyword, needle) {
			if _, exists := g.nodes[opt.Target]; !exists {
				return "", false
			}
			return opt.Target, true
		}
	}
	return "", false
}

// Dangling lists transitions whose target id is not part of the graph.
// These are configuration smells, surfaced by `chatbot validate` and logged
// at startup, but tolerated at runtime.
func (g *Graph) Dangling() []string {
	var out []string
	for _, id := range g.IDs() {
		for _, opt := range g.nodes[id].Options {
			if _, ok := g.nodes[opt.Target]; !ok {
				out = append(out, fmt.Sprintf("%s --%s--> %s", id, opt.Keyword, opt.Target))
			}
		}
	}
	return out
}

// Unreachable lists nodes that cannot be reached from the root by any
// transition chain. Like dangling targets this is reported, not fatal:
// unreachable content is dead weight, not a traffic hazard.
func (g *Graph) Unreachable() []string {
	visited := map[string]bool{g.rootID: true}
	queue := []string{g.rootID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, opt := range g.nodes[cur].Options {
			if _, ok := g.nodes[opt.Target]; ok && !visited[opt.Target] {
				visited[opt.Target] = true
				queue = append(queue, opt.Target)
			}
		}
	}

	var out []string
	for _, id := range g.IDs() {
		if !visited[id] {
			out = append(out, id)
		}
	}
	return out
}
