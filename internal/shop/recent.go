package shop

import lru "github.com/hashicorp/golang-lru/v2"

// RecentlyViewed tracks the products a session looked at most recently.
// Re-viewing a product moves it to the front; the oldest entry falls off
// when the window is full.
type RecentlyViewed struct {
	cache *lru.Cache[string, Product]
}

// NewRecentlyViewed creates a window of the given size.
func NewRecentlyViewed(size int) (*RecentlyViewed, error) {
	cache, err := lru.New[string, Product](size)
	if err != nil {
		return nil, err
	}
	return &RecentlyViewed{cache: cache}, nil
}

// Touch records a product view.
func (r *RecentlyViewed) Touch(p Product) {
	r.cache.Add(p.ID, p)
}

// Products returns the window newest-first.
func (r *RecentlyViewed) Products() []Product {
	keys := r.cache.Keys() // oldest first
	out := make([]Product, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if p, ok := r.cache.Peek(keys[i]); ok {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of tracked products.
func (r *RecentlyViewed) Len() int {
	return r.cache.Len()
}
