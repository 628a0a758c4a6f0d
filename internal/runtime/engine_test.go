package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/config"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/metrics"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/runtime"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/shop"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/adapters/memory"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/faq"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/session"
)

func testConfig() *config.Config {
	return &config.Config{
		Root:         "root",
		HistoryDepth: 10,
		Autocomplete: config.Autocomplete{MinPrefix: 2, Limit: 8},
		Vocabulary:   []string{"order", "orders", "order status"},
		Synonyms: []config.SynonymGroup{
			{Canonical: "track", Members: []string{"tracking", "where is my order"}},
			{Canonical: "shipping", Members: []string{"delivery"}},
		},
		FAQ: []faq.Entry{
			{Keywords: []string{"shipping"}, Response: "5-7 business days.", Category: "shipping"},
		},
		Nodes: []domain.Node{
			{ID: "root", Prompt: "Welcome. Orders or returns?", Options: []domain.Option{
				{Keyword: "orders", Target: "orders_menu"},
				{Keyword: "return", Target: "returns_menu"},
			}},
			{ID: "orders_menu", Prompt: "Track or cancel?", Options: []domain.Option{
				{Keyword: "track", Target: "order_track"},
				{Keyword: "cancel", Target: "order_cancel"},
			}},
			{ID: "order_track", Prompt: "Send your order id.", Leaf: true},
			{ID: "order_cancel", Prompt: "Send the id to cancel.", Leaf: true},
			{ID: "returns_menu", Prompt: "Returns.", Leaf: true},
		},
		Suggestions: []config.SuggestionSource{
			{Source: "root", Edges: []domain.SuggestionEdge{
				{Target: "orders_menu", Weight: 0.50, Label: "Check Orders"},
				{Target: "returns_menu", Weight: 0.30, Label: "Returns"},
				{Target: "order_track", Weight: 0.15, Label: "Track"},
				{Target: "order_cancel", Weight: 0.05, Label: "Cancel"},
			}},
		},
		Orders: []shop.Order{{
			ID:                "ORD-12345",
			CustomerName:      "John Smith",
			Items:             []string{"Gaming Mouse"},
			Total:             49.99,
			Status:            "Shipped",
			Tracking:          "1Z999AA10123456784",
			OrderDate:         "2026-01-15",
			EstimatedDelivery: "2026-01-20",
		}},
	}
}

func newTestEngine(t *testing.T, cfg *config.Config) (*runtime.Engine, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	eng, err := runtime.New(cfg, session.NewManager(store),
		runtime.WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())))
	require.NoError(t, err)
	return eng, store
}

func TestEngine_RejectsMalformedGraph(t *testing.T) {
	cfg := testConfig()
	cfg.Nodes = append(cfg.Nodes, domain.Node{ID: "stuck", Prompt: "no way out"})

	_, err := runtime.New(cfg, session.NewManager(memory.NewStore()))
	assert.Error(t, err)
}

func TestEngine_EmptyMessage(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())

	res, err := eng.ProcessMessage(context.Background(), "s1", "   ")
	require.NoError(t, err)
	assert.Equal(t, "Please enter a message.", res.Reply)
	assert.Equal(t, "root", res.NodeID)
	assert.False(t, res.IsLeaf)
}

func TestEngine_NewSessionStartsAtRootWithSuggestions(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())

	res, err := eng.ProcessMessage(context.Background(), "s1", "gibberish xyz")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)

	require.Len(t, res.Suggestions, 3, "top-3 quick actions")
	assert.Equal(t, "Check Orders", res.Suggestions[0].Label)
	assert.Equal(t, "Returns", res.Suggestions[1].Label)
	assert.Equal(t, "Track", res.Suggestions[2].Label)
}

func TestEngine_DialogueAdvance(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	res, err := eng.ProcessMessage(ctx, "s1", "I want to check my orders")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)
	assert.Equal(t, "Track or cancel?", res.Reply)
	assert.False(t, res.IsLeaf)

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, state.History, "pre-transition node is pushed")
}

func TestEngine_NoMatchLeavesStateUnchanged(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)

	res, err := eng.ProcessMessage(ctx, "s1", "completely unrelated gibberish")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)
	assert.Contains(t, res.Reply, "didn't quite get that")
	assert.Contains(t, res.Reply, "Track or cancel?")

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", state.CurrentNodeID)
	assert.Equal(t, []string{"root"}, state.History)
}

func TestEngine_SynonymCanonicalization(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)

	// "where is my order" resolves to the canonical "track", which is an
	// option keyword on orders_menu.
	res, err := eng.ProcessMessage(ctx, "s1", "where is my order")
	require.NoError(t, err)
	assert.Equal(t, "order_track", res.NodeID)
	assert.True(t, res.IsLeaf)
}

func TestEngine_FAQShortCircuitsDialogue(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	res, err := eng.ProcessMessage(ctx, "s1", "shipping")
	require.NoError(t, err)
	assert.Equal(t, "5-7 business days.", res.Reply)
	assert.Equal(t, "root", res.NodeID, "FAQ answers do not move the session")

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "root", state.CurrentNodeID)
	assert.Empty(t, state.History)
}

func TestEngine_FAQAfterSynonymResolution(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())

	// "delivery" is unioned to "shipping", which is an FAQ keyword.
	res, err := eng.ProcessMessage(context.Background(), "s1", "delivery")
	require.NoError(t, err)
	assert.Equal(t, "5-7 business days.", res.Reply)
}

func TestEngine_OrderLookup(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	res, err := eng.ProcessMessage(ctx, "s1", "what happened to ORD-12345?")
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Order ORD-12345")
	assert.Contains(t, res.Reply, "Status: Shipped")
	assert.Equal(t, "root", res.NodeID, "a direct answer does not move the session")

	res, err = eng.ProcessMessage(ctx, "s1", "ord-99999")
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "couldn't find order ORD-99999")
}

func TestEngine_TrackingNumberLookup(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())

	res, err := eng.ProcessMessage(context.Background(), "s1", "my package is 1Z999AA10123456784")
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Order ORD-12345")
}

func TestEngine_BackAndMenuNavigation(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)
	_, err = eng.ProcessMessage(ctx, "s1", "track")
	require.NoError(t, err)

	res, err := eng.ProcessMessage(ctx, "s1", "back")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)

	res, err = eng.ProcessMessage(ctx, "s1", "back")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)

	// Deeper again, then jump straight home.
	_, err = eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)
	res, err = eng.ProcessMessage(ctx, "s1", "menu")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.History, "menu clears the trail")
}

func TestEngine_BackAtRootIsNoOp(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := eng.ProcessMessage(ctx, "s1", "back")
		require.NoError(t, err)
		assert.Equal(t, "root", res.NodeID)
		assert.Contains(t, res.Reply, "already at the main menu")
	}

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "root", state.CurrentNodeID)
	assert.Empty(t, state.History)
}

func TestEngine_HistoryStaysBounded(t *testing.T) {
	cfg := &config.Config{
		Root:         "a",
		HistoryDepth: 3,
		Autocomplete: config.Autocomplete{MinPrefix: 2, Limit: 8},
		Nodes: []domain.Node{
			{ID: "a", Prompt: "at a", Options: []domain.Option{{Keyword: "go", Target: "b"}}},
			{ID: "b", Prompt: "at b", Options: []domain.Option{{Keyword: "go", Target: "a"}}},
		},
	}
	eng, store := newTestEngine(t, cfg)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := eng.ProcessMessage(ctx, "s1", "go")
		require.NoError(t, err)

		state, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(state.History), 3)
	}

	// After 20 hops the trail holds exactly the last three positions.
	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b"}, state.History)
	assert.Equal(t, "a", state.CurrentNodeID)
}

func TestEngine_StaleNodeRecoversToRoot(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	stale := domain.NewState("removed_node")
	stale.SessionID = "s1"
	stale.History = []string{"also_removed"}
	require.NoError(t, store.Save(ctx, "s1", stale))

	res, err := eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID, "recovered to root, then advanced")

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, state.History)
}

func TestEngine_ResetSession(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)

	res, err := eng.ResetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)
	assert.Contains(t, res.Reply, "Conversation reset.")

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "root", state.CurrentNodeID)
	assert.Empty(t, state.History)
}

func TestEngine_SessionsAreIndependent(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "alice", "orders")
	require.NoError(t, err)

	res, err := eng.ProcessMessage(ctx, "bob", "back")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID, "bob's fresh session is unaffected by alice")
}

func TestEngine_Autocomplete(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())

	out := eng.Autocomplete("ord")
	assert.ElementsMatch(t, []string{"order", "orders", "order status"}, out)

	assert.Empty(t, eng.Autocomplete("o"), "below minimum prefix")
	assert.Empty(t, eng.Autocomplete("zzz"))
}

func TestEngine_Stats(t *testing.T) {
	eng, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)
	_, err = eng.ProcessMessage(ctx, "s2", "hello")
	require.NoError(t, err)

	stats, err := eng.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.VocabularySize)
	assert.Equal(t, 1, stats.FAQEntries)
	assert.Equal(t, 5, stats.DialogueNodes)
	assert.Equal(t, 1, stats.SuggestionSources)
	assert.Equal(t, 1, stats.Orders)
	assert.Equal(t, 2, stats.ActiveSessions)
}

func TestEngine_ConcurrentTurnsSameSession(t *testing.T) {
	eng, store := newTestEngine(t, testConfig())
	ctx := context.Background()

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			_, err := eng.ProcessMessage(ctx, "shared", "orders")
			done <- err
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}

	// Whatever the interleaving, the state must be internally consistent.
	state, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Contains(t, []string{"root", "orders_menu"}, state.CurrentNodeID)
	assert.LessOrEqual(t, len(state.History), 10)
}

func TestEngine_EndToEndStockFlow(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	eng, _ := newTestEngine(t, cfg)
	ctx := context.Background()

	sessionID := "e2e"
	res, err := eng.ProcessMessage(ctx, sessionID, "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)

	// "status" advances without colliding with the FAQ table.
	res, err = eng.ProcessMessage(ctx, sessionID, "status")
	require.NoError(t, err)
	assert.Equal(t, "order_track", res.NodeID)
	assert.True(t, res.IsLeaf)

	res, err = eng.ProcessMessage(ctx, sessionID, fmt.Sprintf("here it is: %s", "ORD-12345"))
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Order ORD-12345")

	res, err = eng.ProcessMessage(ctx, sessionID, "back")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)

	res, err = eng.ProcessMessage(ctx, sessionID, "back")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)
}
