package chatbot

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/config"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/logging"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/metrics"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/runtime"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/shop"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/adapters/memory"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/ports"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/session"
)

const recentlyViewedSize = 10

// Bot is the high-level entry point for the support chatbot library.
// It wraps the internal engine and exposes the message, auto-complete and
// session operations consumers need.
type Bot struct {
	engine   *runtime.Engine
	catalog  *shop.Catalog
	recent   *shop.RecentlyViewed
	sessions *session.Manager

	cfg        *config.Config
	configPath string
	store      ports.SessionStore
	locker     ports.DistributedLocker
	metrics    *metrics.Metrics
	logger     *slog.Logger
	topK       int
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithConfigPath loads the bot definition from a YAML file instead of the
// embedded default.
func WithConfigPath(path string) Option {
	return func(b *Bot) { b.configPath = path }
}

// WithConfig injects an already-parsed bot definition, bypassing file and
// embedded loading.
func WithConfig(cfg *config.Config) Option {
	return func(b *Bot) { b.cfg = cfg }
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store ports.SessionStore) Option {
	return func(b *Bot) { b.store = store }
}

// WithLocker enables distributed session locking for multi-replica
// deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(b *Bot) { b.locker = locker }
}

// WithLogger sets a structured logger for the bot and its engine.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// WithMetrics injects pre-registered collectors, typically created on the
// server's Prometheus registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bot) { b.metrics = m }
}

// WithTopK overrides the number of quick-action suggestions per reply.
func WithTopK(k int) Option {
	return func(b *Bot) { b.topK = k }
}

// New initializes a Bot. With no options it runs the embedded stock
// e-commerce support flow on an in-memory session store.
func New(opts ...Option) (*Bot, error) {
	b := &Bot{
		logger: logging.NewNop(),
		topK:   runtime.DefaultTopK,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.cfg == nil {
		cfg, err := config.Load(b.configPath)
		if err != nil {
			return nil, err
		}
		b.cfg = cfg
	}

	if b.store == nil {
		b.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(b.locker))
	}
	b.sessions = session.NewManager(b.store, sessionOpts...)

	engineOpts := []runtime.Option{
		runtime.WithLogger(b.logger),
		runtime.WithTopK(b.topK),
	}
	if b.metrics != nil {
		engineOpts = append(engineOpts, runtime.WithMetrics(b.metrics))
	}

	engine, err := runtime.New(b.cfg, b.sessions, engineOpts...)
	if err != nil {
		return nil, err
	}
	b.engine = engine

	b.catalog = shop.NewCatalog(b.cfg.Products)
	b.recent, err = shop.NewRecentlyViewed(recentlyViewedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recently-viewed window: %w", err)
	}

	return b, nil
}

// ProcessMessage runs one conversation turn for the session.
func (b *Bot) ProcessMessage(ctx context.Context, sessionID, message string) (*runtime.Result, error) {
	return b.engine.ProcessMessage(ctx, sessionID, message)
}

// Autocomplete returns vocabulary phrases starting with prefix.
func (b *Bot) Autocomplete(prefix string) []string {
	return b.engine.Autocomplete(prefix)
}

// ResetSession puts the session back at the root node with empty history.
func (b *Bot) ResetSession(ctx context.Context, sessionID string) (*runtime.Result, error) {
	return b.engine.ResetSession(ctx, sessionID)
}

// Stats reports a snapshot of the engine's structures and sessions.
func (b *Bot) Stats(ctx context.Context) (*runtime.Stats, error) {
	return b.engine.Stats(ctx)
}

// Orders exposes the order book.
func (b *Bot) Orders() *shop.OrderBook {
	return b.engine.Orders()
}

// Catalog exposes the product catalog.
func (b *Bot) Catalog() *shop.Catalog {
	return b.catalog
}

// RecentlyViewed exposes the recently-viewed product window.
func (b *Bot) RecentlyViewed() *shop.RecentlyViewed {
	return b.recent
}

// Sessions exposes the session manager.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}
