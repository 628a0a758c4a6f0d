package http

import (
	"context"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/runtime"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/shop"
)

// Bot defines what the transport needs from the chatbot core.
type Bot interface {
	ProcessMessage(ctx context.Context, sessionID, message string) (*runtime.Result, error)
	Autocomplete(prefix string) []string
	ResetSession(ctx context.Context, sessionID string) (*runtime.Result, error)
	Stats(ctx context.Context) (*runtime.Stats, error)
	Orders() *shop.OrderBook
	Catalog() *shop.Catalog
	RecentlyViewed() *shop.RecentlyViewed
}
