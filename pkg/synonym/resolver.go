// Package synonym groups equivalent phrases into intent classes using a
// disjoint-set forest with union by rank and path compression. Any member of
// a class resolves to the same canonical representative in amortized
// near-constant time.
package synonym

import "strings"

// Resolver partitions phrases into equivalence classes.
// Groups are seeded once at startup; after that, Resolve only mutates
// internal parent links (path compression), which does not change any
// externally observable result, so the seeded resolver must still be
// confined to a single goroutine or guarded externally if unions continue
// at runtime.
type Resolver struct {
	parent map[string]string
	rank   map[string]int
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

func normalize(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}

func (r *Resolver) makeSet(x string) {
	if _, ok := r.parent[x]; !ok {
		r.parent[x] = x
		r.rank[x] = 0
	}
}

// Resolve returns the canonical representative of the phrase's class.
// An unseen phrase is registered as its own singleton class and returned
// unchanged. Implemented iteratively in two passes (find root, then relink)
// to stay safe on arbitrarily long parent chains.
func (r *Resolver) Resolve(phrase string) string {
	x := normalize(phrase)
	r.makeSet(x)

	root := x
	for r.parent[root] != root {
		root = r.parent[root]
	}

	// Second pass: point every visited node directly at the root.
	for cur := x; cur != root; {
		next := r.parent[cur]
		r.parent[cur] = root
		cur = next
	}

	return root
}

// Union merges the classes containing a and b and returns the surviving
// representative. The higher-rank root wins; on equal ranks the first
// argument's root survives and its rank grows by one. Seeding order is
// therefore part of the configuration contract: keep it fixed so canonical
// labels stay stable across restarts.
func (r *Resolver) Union(a, b string) string {
	rootA := r.Resolve(a)
	rootB := r.Resolve(b)

	if rootA == rootB {
		return rootA
	}

	switch {
	case r.rank[rootA] < r.rank[rootB]:
		r.parent[rootA] = rootB
		return rootB
	case r.rank[rootA] > r.rank[rootB]:
		r.parent[rootB] = rootA
		return rootA
	default:
		r.parent[rootB] = rootA
		r.rank[rootA]++
		return rootA
	}
}

// AreEquivalent reports whether a and b resolve to the same representative.
func (r *Resolver) AreEquivalent(a, b string) bool {
	return r.Resolve(a) == r.Resolve(b)
}

// Known reports whether the phrase has been seen before, without
// registering it.
func (r *Resolver) Known(phrase string) bool {
	_, ok := r.parent[normalize(phrase)]
	return ok
}

// Len returns the number of registered phrases.
func (r *Resolver) Len() int {
	return len(r.parent)
}
