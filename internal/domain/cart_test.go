package domain_test

import (
	"testing"

	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func usd(s string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(s), Currency: currency.USD}
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name       string
		quantities []int
		packSize   int
		wantItems  int
		wantPacks  int
	}{
		{
			name:     "empty cart",
			packSize: domain.DefaultPackSize,
		},
		{
			name:       "whole packs",
			quantities: []int{4, 8},
			packSize:   domain.DefaultPackSize,
			wantItems:  12,
			wantPacks:  3,
		},
		{
			name:       "partial pack rounds down",
			quantities: []int{4, 3},
			packSize:   domain.DefaultPackSize,
			wantItems:  7,
			wantPacks:  1,
		},
		{
			name:       "non-positive pack size yields no packs",
			quantities: []int{4},
			packSize:   0,
			wantItems:  4,
			wantPacks:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []domain.LineItem
			for _, q := range tt.quantities {
				items = append(items, domain.LineItem{Quantity: q})
			}

			total := domain.TotalItems(items)
			assert.Equal(t, tt.wantItems, total)
			assert.Equal(t, tt.wantPacks, domain.TotalPacks(total, tt.packSize))
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []domain.LineItem{
		{ID: "a", Price: usd("4.99"), Quantity: 4},
		{ID: "b", Price: usd("1.25"), Quantity: 3},
	}

	total, err := domain.Subtotal(items, currency.EUR)
	require.NoError(t, err)
	assert.Equal(t, "USD 23.71", total.String())

	empty, err := domain.Subtotal(nil, currency.EUR)
	require.NoError(t, err)
	assert.Equal(t, "EUR 0.00", empty.String())

	items = append(items, domain.LineItem{
		ID:       "c",
		Price:    domain.Money{Amount: decimal.NewFromInt(1), Currency: currency.EUR},
		Quantity: 1,
	})
	_, err = domain.Subtotal(items, currency.USD)
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	assert.ErrorContains(t, err, "line c")
}

func TestProductVariantValidate(t *testing.T) {
	require.EqualError(t, domain.ProductVariant{}.Validate(), "variantID is empty")
	require.NoError(t, domain.ProductVariant{VariantID: "v1"}.Validate())
}
