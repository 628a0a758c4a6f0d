// Package runtime wires the core structures into the per-message pipeline:
// normalize, resolve the canonical intent, try a direct answer (FAQ, order
// lookup), otherwise advance the dialogue state machine, then rank the next
// actions for the reply. All per-session mutation happens under the session
// manager's lock, so one turn is an atomic read-modify-write.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/config"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/logging"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/metrics"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/shop"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/dialogue"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/faq"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/history"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/session"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/suggest"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/synonym"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/textindex"
)

// DefaultTopK is the number of next-action suggestions attached to replies.
const DefaultTopK = 3

// Message outcomes, used as the metrics label.
const (
	outcomeEmpty       = "empty"
	outcomeNavigation  = "navigation"
	outcomeFAQ         = "faq"
	outcomeOrderLookup = "order_lookup"
	outcomeDialogue    = "dialogue"
	outcomeNoMatch     = "no_match"
)

var (
	orderIDPattern  = regexp.MustCompile(`(?i)\bORD-?[0-9]{3,}\b`)
	trackingPattern = regexp.MustCompile(`\b1Z[0-9A-Z]{10,}\b`)
)

var (
	backCommands = map[string]bool{
		"back": true, "go back": true, "previous": true, "undo": true,
	}
	menuCommands = map[string]bool{
		"menu": true, "main menu": true,
	}
)

// Result is one processed turn: the reply text, where the session now is,
// and the ranked quick actions for that position.
type Result struct {
	SessionID   string
	Reply       string
	NodeID      string
	IsLeaf      bool
	Suggestions []domain.Suggestion
}

// Stats is a point-in-time snapshot of the engine's static structures and
// session population.
type Stats struct {
	VocabularySize    int     `json:"vocabulary_size"`
	SynonymPhrases    int     `json:"synonym_phrases"`
	FAQEntries        int     `json:"faq_entries"`
	DialogueNodes     int     `json:"dialogue_nodes"`
	SuggestionSources int     `json:"suggestion_sources"`
	Orders            int     `json:"orders"`
	ActiveSessions    int     `json:"active_sessions"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// Engine orchestrates one conversation turn at a time. The graph, trie, FAQ
// table and suggestion adjacency are frozen at construction; the resolver
// still compresses paths on lookup, so it gets its own mutex.
type Engine struct {
	graph        *dialogue.Graph
	suggestGraph *suggest.Graph
	faqs         *faq.Table
	trie         *textindex.Trie
	orders       *shop.OrderBook
	sessions     *session.Manager

	resolverMu sync.Mutex
	resolver   *synonym.Resolver

	historyDepth int
	acLimit      int
	topK         int
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics replaces the engine's (private, unexported-registry) default
// collectors, typically with ones registered on the server registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTopK overrides the number of quick actions per reply.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// New builds an engine from the bot definition. Malformed dialogue
// configuration is fatal here; dangling transition targets and unreachable
// nodes are logged and tolerated.
func New(cfg *config.Config, sessions *session.Manager, opts ...Option) (*Engine, error) {
	graph, err := dialogue.New(cfg.Root, cfg.Nodes)
	if err != nil {
		return nil, fmt.Errorf("invalid dialogue graph: %w", err)
	}

	trie := textindex.NewWithMinPrefix(cfg.Autocomplete.MinPrefix)
	for _, phrase := range cfg.Vocabulary {
		trie.Insert(phrase)
	}

	resolver := synonym.NewResolver()
	for _, group := range cfg.Synonyms {
		for _, member := range group.Members {
			resolver.Union(group.Canonical, member)
		}
	}

	faqs := faq.NewTable()
	for _, entry := range cfg.FAQ {
		faqs.Add(entry)
	}

	suggestGraph := suggest.NewGraph()
	for _, src := range cfg.Suggestions {
		for _, edge := range src.Edges {
			suggestGraph.AddEdge(src.Source, edge.Target, edge.Weight, edge.Label)
		}
	}

	e := &Engine{
		graph:        graph,
		suggestGraph: suggestGraph,
		faqs:         faqs,
		trie:         trie,
		orders:       shop.NewOrderBook(cfg.Orders),
		sessions:     sessions,
		resolver:     resolver,
		historyDepth: cfg.HistoryDepth,
		acLimit:      cfg.Autocomplete.Limit,
		topK:         DefaultTopK,
		metrics:      metrics.NewWithRegisterer(prometheus.NewRegistry()),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, d := range graph.Dangling() {
		e.logger.Warn("dialogue transition targets an undefined node", "transition", d)
	}
	for _, id := range graph.Unreachable() {
		e.logger.Warn("dialogue node is unreachable from the root", "node_id", id)
	}

	return e, nil
}

// Orders exposes the order book to the transport layer.
func (e *Engine) Orders() *shop.OrderBook {
	return e.orders
}

// Sessions exposes the session manager to the transport layer.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// ProcessMessage runs one conversation turn for the session.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, message string) (*Result, error) {
	start := time.Now()
	defer func() {
		e.metrics.MessageDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		res     *Result
		outcome string
	)
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := e.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		res, outcome, err = e.handle(ctx, state, message)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.metrics.MessagesTotal.WithLabelValues(outcome).Inc()
	e.logger.Debug("message processed",
		"session_id", sessionID,
		"outcome", outcome,
		"node_id", res.NodeID,
	)
	return res, nil
}

// Autocomplete returns vocabulary phrases starting with prefix.
func (e *Engine) Autocomplete(prefix string) []string {
	out := e.trie.Suggestions(prefix, e.acLimit)
	e.metrics.AutocompleteTotal.Inc()
	e.metrics.AutocompleteResults.Observe(float64(len(out)))
	return out
}

// ResetSession discards the session's position and history and puts it back
// at the root node.
func (e *Engine) ResetSession(ctx context.Context, sessionID string) (*Result, error) {
	var res *Result
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state := domain.NewState(e.graph.RootID())
		state.SessionID = sessionID
		if err := e.sessions.Store().Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		res = e.respond(state, "Conversation reset.\n\n"+e.graph.Root().Prompt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.SessionResets.Inc()
	return res, nil
}

// Stats reports the engine snapshot.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	ids, err := e.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	e.metrics.ActiveSessions.Set(float64(len(ids)))

	e.resolverMu.Lock()
	phrases := e.resolver.Len()
	e.resolverMu.Unlock()

	return &Stats{
		VocabularySize:    e.trie.Len(),
		SynonymPhrases:    phrases,
		FAQEntries:        e.faqs.Len(),
		DialogueNodes:     e.graph.Len(),
		SuggestionSources: e.suggestGraph.Len(),
		Orders:            e.orders.Len(),
		ActiveSessions:    len(ids),
		UptimeSeconds:     time.Since(e.metrics.ServerStartTime).Seconds(),
	}, nil
}

// loadOrStart reads the session state without taking the manager lock; the
// caller already holds it. New sessions start at the root and are persisted
// immediately.
func (e *Engine) loadOrStart(ctx context.Context, sessionID string) (*domain.State, error) {
	store := e.sessions.Store()

	state, err := store.Load(ctx, sessionID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	state = domain.NewState(e.graph.RootID())
	state.SessionID = sessionID
	if err := store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	return state, nil
}

func (e *Engine) save(ctx context.Context, state *domain.State) error {
	if err := e.sessions.Store().Save(ctx, state.SessionID, state); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (e *Engine) handle(ctx context.Context, state *domain.State, message string) (*Result, string, error) {
	// A session can point at a node that no longer exists after a config
	// change; recover to the root instead of wedging the conversation.
	if _, ok := e.graph.Node(state.CurrentNodeID); !ok {
		state.CurrentNodeID = e.graph.RootID()
		state.History = nil
		if err := e.save(ctx, state); err != nil {
			return nil, "", err
		}
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return e.respond(state, "Please enter a message."), outcomeEmpty, nil
	}
	lower := strings.ToLower(trimmed)

	if menuCommands[lower] {
		return e.goToMenu(ctx, state)
	}
	if backCommands[lower] {
		return e.goBack(ctx, state)
	}

	intent, normalized := e.normalizeIntent(lower)
	if normalized {
		e.metrics.IntentNormalized.Inc()
	}

	if m := e.faqs.Lookup(intent); m != nil {
		e.logger.Debug("faq hit", "keyword", m.MatchedKeyword, "category", m.Category)
		return e.respond(state, m.Response), outcomeFAQ, nil
	}

	if id := orderIDPattern.FindString(trimmed); id != "" {
		return e.lookupOrder(state, id)
	}
	if tn := trackingPattern.FindString(strings.ToUpper(trimmed)); tn != "" {
		return e.lookupTracking(state, tn)
	}

	return e.advance(ctx, state, intent, lower)
}

// advance walks the dialogue graph. The canonical intent is tried first and
// the raw message second, so canonicalization can only widen matching, never
// lose a keyword the user actually typed.
func (e *Engine) advance(ctx context.Context, state *domain.State, intent, raw string) (*Result, string, error) {
	target, ok := e.graph.Match(state.CurrentNodeID, intent)
	if !ok && intent != raw {
		target, ok = e.graph.Match(state.CurrentNodeID, raw)
	}

	if !ok {
		node, _ := e.graph.Node(state.CurrentNodeID)
		reply := "I didn't quite get that.\n\n" + node.Prompt +
			"\n\nYou can also say 'back' or 'menu'."
		return e.respond(state, reply), outcomeNoMatch, nil
	}

	trail := history.FromSlice(state.History, e.historyDepth)
	trail.Push(state.CurrentNodeID)
	state.History = trail.Slice()
	state.CurrentNodeID = target
	if err := e.save(ctx, state); err != nil {
		return nil, "", err
	}

	node, _ := e.graph.Node(target)
	return e.respond(state, node.Prompt), outcomeDialogue, nil
}

func (e *Engine) goToMenu(ctx context.Context, state *domain.State) (*Result, string, error) {
	state.CurrentNodeID = e.graph.RootID()
	state.History = nil
	if err := e.save(ctx, state); err != nil {
		return nil, "", err
	}
	return e.respond(state, "Returning to the main menu...\n\n"+e.graph.Root().Prompt), outcomeNavigation, nil
}

func (e *Engine) goBack(ctx context.Context, state *domain.State) (*Result, string, error) {
	trail := history.FromSlice(state.History, e.historyDepth)
	prev, ok := trail.Pop()
	if !ok {
		return e.respond(state, "You're already at the main menu."), outcomeNavigation, nil
	}

	state.History = trail.Slice()
	state.CurrentNodeID = prev
	if err := e.save(ctx, state); err != nil {
		return nil, "", err
	}

	node, _ := e.graph.Node(prev)
	return e.respond(state, "Going back...\n\n"+node.Prompt), outcomeNavigation, nil
}

// normalizeIntent resolves the full message first and each token second.
// Resolve compresses parent links, so calls are serialized.
func (e *Engine) normalizeIntent(lower string) (string, bool) {
	e.resolverMu.Lock()
	defer e.resolverMu.Unlock()

	if canonical := e.resolver.Resolve(lower); canonical != lower {
		return canonical, true
	}
	for _, word := range strings.Fields(lower) {
		if canonical := e.resolver.Resolve(word); canonical != word {
			return canonical, true
		}
	}
	return lower, false
}

func (e *Engine) lookupOrder(state *domain.State, id string) (*Result, string, error) {
	o, err := e.orders.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			reply := fmt.Sprintf("I couldn't find order %s. Double-check the id on your confirmation email (it looks like ORD-12345).", strings.ToUpper(id))
			return e.respond(state, reply), outcomeOrderLookup, nil
		}
		return nil, "", err
	}
	return e.respond(state, shop.FormatOrder(o)), outcomeOrderLookup, nil
}

func (e *Engine) lookupTracking(state *domain.State, tracking string) (*Result, string, error) {
	o, err := e.orders.GetByTracking(tracking)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			reply := fmt.Sprintf("I couldn't find a shipment with tracking number %s.", tracking)
			return e.respond(state, reply), outcomeOrderLookup, nil
		}
		return nil, "", err
	}
	return e.respond(state, "That tracking number belongs to:\n\n"+shop.FormatOrder(o)), outcomeOrderLookup, nil
}

// respond assembles the turn result for the session's current position.
func (e *Engine) respond(state *domain.State, reply string) *Result {
	node, _ := e.graph.Node(state.CurrentNodeID)
	return &Result{
		SessionID:   state.SessionID,
		Reply:       reply,
		NodeID:      state.CurrentNodeID,
		IsLeaf:      node.Leaf,
		Suggestions: e.suggestGraph.Suggestions(state.CurrentNodeID, e.topK),
	}
}
