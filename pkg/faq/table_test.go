package faq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/faq"
)

func newTable() *faq.Table {
	t := faq.NewTable()
	t.Add(faq.Entry{
		Keywords: []string{"shipping", "delivery time"},
		Response: "5-7 business days.",
		Category: "shipping",
	})
	t.Add(faq.Entry{
		Keywords: []string{"return", "return policy"},
		Response: "30-day returns.",
		Category: "returns",
	})
	return t
}

func TestTable_ExactPhraseLookup(t *testing.T) {
	table := newTable()

	m := table.Lookup("delivery time")
	require.NotNil(t, m)
	assert.Equal(t, "5-7 business days.", m.Response)
	assert.Equal(t, "shipping", m.Category)
	assert.Equal(t, "delivery time", m.MatchedKeyword)
}

func TestTable_TokenFallback(t *testing.T) {
	table := newTable()

	m := table.Lookup("how does shipping work")
	require.NotNil(t, m)
	assert.Equal(t, "shipping", m.MatchedKeyword)
}

func TestTable_CaseAndWhitespaceInsensitive(t *testing.T) {
	table := newTable()

	assert.NotNil(t, table.Lookup("  SHIPPING  "))
	assert.NotNil(t, table.Lookup("Return Policy"))
}

func TestTable_Miss(t *testing.T) {
	table := newTable()

	assert.Nil(t, table.Lookup("unrelated question"))
	assert.Nil(t, table.Lookup(""))
	assert.Nil(t, table.Lookup("   "))
}

func TestTable_LaterEntryWinsKeywordCollision(t *testing.T) {
	table := faq.NewTable()
	table.Add(faq.Entry{Keywords: []string{"hours"}, Response: "old", Category: "a"})
	table.Add(faq.Entry{Keywords: []string{"hours"}, Response: "new", Category: "b"})

	m := table.Lookup("hours")
	require.NotNil(t, m)
	assert.Equal(t, "new", m.Response)
}

func TestTable_Counts(t *testing.T) {
	table := newTable()
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 4, table.Keywords())
}
