package shop

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
)

// Order is a single purchase record.
type Order struct {
	ID                string   `yaml:"id" json:"id"`
	CustomerName      string   `yaml:"customer" json:"customer"`
	Items             []string `yaml:"items" json:"items"`
	Total             float64  `yaml:"total" json:"total"`
	Status            string   `yaml:"status" json:"status"`
	Tracking          string   `yaml:"tracking,omitempty" json:"tracking,omitempty"`
	OrderDate         string   `yaml:"order_date" json:"order_date"`
	EstimatedDelivery string   `yaml:"estimated_delivery,omitempty" json:"estimated_delivery,omitempty"`
	DeliveredDate     string   `yaml:"delivered_date,omitempty" json:"delivered_date,omitempty"`
	CancelledDate     string   `yaml:"cancelled_date,omitempty" json:"cancelled_date,omitempty"`
	RefundStatus      string   `yaml:"refund_status,omitempty" json:"refund_status,omitempty"`
}

// OrderBook is keyed storage for orders: O(1) lookup by normalized id.
type OrderBook struct {
	mu     sync.RWMutex
	orders map[string]Order
}

// NewOrderBook creates an order book with the given seed records.
func NewOrderBook(orders []Order) *OrderBook {
	b := &OrderBook{orders: make(map[string]Order, len(orders))}
	for _, o := range orders {
		b.orders[normalizeOrderID(o.ID)] = o
	}
	return b
}

func normalizeOrderID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Get looks up an order by id. A bare numeric id is retried with the
// conventional "ORD-" prefix.
func (b *OrderBook) Get(orderID string) (Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	id := normalizeOrderID(orderID)
	if o, ok := b.orders[id]; ok {
		return o, nil
	}
	if !strings.HasPrefix(id, "ORD-") {
		if o, ok := b.orders["ORD-"+id]; ok {
			return o, nil
		}
	}
	return Order{}, domain.ErrOrderNotFound
}

// GetByTracking scans for an order carrying the tracking number.
func (b *OrderBook) GetByTracking(tracking string) (Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	needle := strings.ToUpper(strings.TrimSpace(tracking))
	for _, o := range b.orders {
		if o.Tracking != "" && strings.ToUpper(o.Tracking) == needle {
			return o, nil
		}
	}
	return Order{}, domain.ErrOrderNotFound
}

// Add inserts or replaces an order.
func (b *OrderBook) Add(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[normalizeOrderID(o.ID)] = o
}

// UpdateStatus changes the status of an existing order.
func (b *OrderBook) UpdateStatus(orderID, status string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := normalizeOrderID(orderID)
	o, ok := b.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	b.orders[id] = o
	return nil
}

// Len returns the number of orders.
func (b *OrderBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// FormatOrder renders an order as a chat reply.
func FormatOrder(o Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order %s\n", o.ID)
	fmt.Fprintf(&sb, "Status: %s\n", o.Status)
	fmt.Fprintf(&sb, "Items: %s\n", strings.Join(o.Items, ", "))
	fmt.Fprintf(&sb, "Total: $%.2f\n", o.Total)
	fmt.Fprintf(&sb, "Ordered: %s", o.OrderDate)

	if o.Tracking != "" {
		fmt.Fprintf(&sb, "\nTracking: %s", o.Tracking)
	}

	switch o.Status {
	case "Delivered":
		fmt.Fprintf(&sb, "\nDelivered: %s", o.DeliveredDate)
	case "Cancelled":
		fmt.Fprintf(&sb, "\nCancelled: %s", o.CancelledDate)
		if o.RefundStatus != "" {
			fmt.Fprintf(&sb, "\nRefund: %s", o.RefundStatus)
		}
	default:
		if o.EstimatedDelivery != "" {
			fmt.Fprintf(&sb, "\nEstimated delivery: %s", o.EstimatedDelivery)
		}
	}
	return sb.String()
}
