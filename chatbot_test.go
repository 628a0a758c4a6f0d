package chatbot_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatbot "github.com/aarush-luthra/smart-customer-support-chatbot"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/config"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/metrics"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/adapters/memory"
)

func newBot(t *testing.T, opts ...chatbot.Option) *chatbot.Bot {
	t.Helper()

	opts = append(opts, chatbot.WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())))
	bot, err := chatbot.New(opts...)
	require.NoError(t, err)
	return bot
}

func TestNew_DefaultsToStockFlow(t *testing.T) {
	bot := newBot(t)

	stats, err := bot.Stats(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.DialogueNodes, 20)
	assert.Greater(t, stats.VocabularySize, 0)
	assert.Greater(t, stats.FAQEntries, 0)
	assert.Greater(t, bot.Catalog().Len(), 0)
}

func TestBot_ConversationRoundTrip(t *testing.T) {
	bot := newBot(t)
	ctx := context.Background()

	res, err := bot.ProcessMessage(ctx, "s1", "I need help with my orders")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)
	assert.NotEmpty(t, res.Suggestions)

	res, err = bot.ProcessMessage(ctx, "s1", "back")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)
}

func TestBot_AutocompleteUsesStockVocabulary(t *testing.T) {
	bot := newBot(t)

	out := bot.Autocomplete("ship")
	assert.Contains(t, out, "shipping")
	assert.Empty(t, bot.Autocomplete("s"), "below the minimum prefix length")
}

func TestBot_ResetSession(t *testing.T) {
	bot := newBot(t)
	ctx := context.Background()

	_, err := bot.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)

	res, err := bot.ResetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "root", res.NodeID)
}

func TestBot_CustomConfig(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.HistoryDepth = 2

	bot := newBot(t, chatbot.WithConfig(cfg))

	res, err := bot.ProcessMessage(context.Background(), "s1", "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", res.NodeID)
}

func TestBot_CustomSessionStore(t *testing.T) {
	store := memory.NewStore()
	bot := newBot(t, chatbot.WithSessionStore(store))
	ctx := context.Background()

	_, err := bot.ProcessMessage(ctx, "s1", "orders")
	require.NoError(t, err)

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "orders_menu", state.CurrentNodeID)
}

func TestBot_OrdersLookup(t *testing.T) {
	bot := newBot(t)

	o, err := bot.Orders().Get("ORD-12345")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", o.CustomerName)
}

func TestNew_InvalidConfigPath(t *testing.T) {
	_, err := chatbot.New(chatbot.WithConfigPath("/does/not/exist.yaml"))
	assert.Error(t, err)
}
