package order

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemAcceptsNameAlias(t *testing.T) {
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(`[{"item":"Idli","price":30},{"name":"Dosa","price":60}]`), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Idli", items[0].Item)
	assert.Equal(t, "Dosa", items[1].Item)
	assert.Equal(t, "60", items[1].Price.String())

	out, err := json.Marshal(items[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"item":"Dosa","price":60}`, string(out), "prices stay JSON numbers")
}

func TestTotal(t *testing.T) {
	price := decimal.RequireFromString
	assert.Equal(t, "90", Total([]Item{{Item: "Idli", Price: price("30")}, {Item: "Dosa", Price: price("60")}}).String())
	assert.Equal(t, "0.3", Total([]Item{{Item: "a", Price: price("0.1")}, {Item: "b", Price: price("0.2")}}).String())
	assert.True(t, Total(nil).IsZero())
}

func TestTransition(t *testing.T) {
	all := []Status{StatusPending, StatusCompleted, StatusCancelled}
	for _, from := range all {
		for _, to := range all {
			want := from == StatusPending && to != StatusPending
			assert.Equal(t, want, Transition(from, to), "%s -> %s", from, to)
		}
	}
}
