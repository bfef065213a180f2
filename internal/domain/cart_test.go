package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartView(t *testing.T) {
	plain := &Product{ID: 1, Price: decimal.RequireFromString("24.99")}
	promo := &Product{
		ID:            2,
		Price:         decimal.RequireFromString("29.99"),
		DiscountPrice: decimal.NewNullDecimal(decimal.RequireFromString("19.99")),
	}

	view := NewCartView([]CartItem{
		{ID: 10, ProductID: 1, Quantity: 2, Product: plain},
		{ID: 11, ProductID: 2, Quantity: 1, Product: promo},
		{ID: 12, ProductID: 3, Quantity: 5},
	})

	require.Len(t, view.Items, 2)
	assert.Equal(t, "69.97", view.Total.StringFixed(2))
	assert.Equal(t, int64(3), view.Count)
	assert.Equal(t, "49.98", view.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "19.99", view.Items[1].UnitPrice.StringFixed(2))
	assert.Nil(t, view.Items[0].CartItem.Product)
	assert.False(t, view.Empty())
}

func TestNewCartViewEmpty(t *testing.T) {
	view := NewCartView(nil)

	assert.True(t, view.Empty())
	assert.True(t, view.Total.IsZero())
	assert.NotNil(t, view.Items)
}
