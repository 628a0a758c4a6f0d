package shop

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Product is a catalog entry.
type Product struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Price    float64 `yaml:"price" json:"price"`
	Category string  `yaml:"category,omitempty" json:"category,omitempty"`
}

// Catalog is read-only keyed product storage.
type Catalog struct {
	byID map[string]Product
}

// NewCatalog builds a catalog from seed products.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{byID: make(map[string]Product, len(products))}
	for _, p := range products {
		c.byID[strings.ToUpper(p.ID)] = p
	}
	return c
}

// Get looks up a product by id.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	return p, ok
}

// FindByName returns the first product whose name contains the query,
// case-insensitively, scanning ids in lexical order for determinism.
func (c *Catalog) FindByName(name string) (Product, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Product{}, false
	}
	for _, id := range c.ids() {
		p := c.byID[id]
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, true
		}
	}
	return Product{}, false
}

// All returns the catalog in lexical id order.
func (c *Catalog) All() []Product {
	out := make([]Product, 0, len(c.byID))
	for _, id := range c.ids() {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) ids() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// CartItem is one product line in a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type cartAction struct {
	kind        string // "add" or "remove"
	productID   string
	wasNew      bool
	oldQuantity int
	removed     CartItem
}

// Cart is a per-session shopping cart with an undo stack for the last
// actions. Quantities are always >= 1; removing the last unit drops the line.
type Cart struct {
	mu      sync.Mutex
	catalog *Catalog
	items   map[string]*CartItem
	history []cartAction
}

const cartUndoDepth = 10

// NewCart creates an empty cart over the catalog.
func NewCart(catalog *Catalog) *Cart {
	return &Cart{
		catalog: catalog,
		items:   make(map[string]*CartItem),
	}
}

// Add puts quantity units of a product into the cart.
func (c *Cart) Add(productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	p, ok := c.catalog.Get(productID)
	if !ok {
		return fmt.Errorf("product %q not found", productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToUpper(p.ID)
	if item, exists := c.items[key]; exists {
		c.pushAction(cartAction{kind: "add", productID: key, oldQuantity: item.Quantity})
		item.Quantity += quantity
	} else {
		c.pushAction(cartAction{kind: "add", productID: key, wasNew: true})
		c.items[key] = &CartItem{Product: p, Quantity: quantity}
	}
	return nil
}

// Remove drops a product line from the cart.
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToUpper(strings.TrimSpace(productID))
	item, exists := c.items[key]
	if !exists {
		return fmt.Errorf("product %q not in cart", productID)
	}

	c.pushAction(cartAction{kind: "remove", productID: key, removed: *item})
	delete(c.items, key)
	return nil
}

// Undo reverses the most recent add or remove.
func (c *Cart) Undo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return fmt.Errorf("nothing to undo")
	}

	last := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]

	switch last.kind {
	case "add":
		if last.wasNew {
			delete(c.items, last.productID)
		} else if item, ok := c.items[last.productID]; ok {
			item.Quantity = last.oldQuantity
		}
	case "remove":
		restored := last.removed
		c.items[last.productID] = &restored
	}
	return nil
}

func (c *Cart) pushAction(a cartAction) {
	if len(c.history) >= cartUndoDepth {
		copy(c.history, c.history[1:])
		c.history = c.history[:len(c.history)-1]
	}
	c.history = append(c.history, a)
}

// Items returns the cart lines in lexical product id order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]CartItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, *c.items[id])
	}
	return out
}

// Total returns the cart value.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// CanUndo reports whether an action can be reversed.
func (c *Cart) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history) > 0
}
