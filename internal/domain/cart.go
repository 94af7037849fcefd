package domain

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
)

// ProductVariant is the snapshot a product page hands to the cart when the
// shopper adds it. Quantity and line id are owned by the cart.
type ProductVariant struct {
	VariantID string
	Handle    string
	Title     string
	Image     string
	Price     Money
	Color     string
}

func (v ProductVariant) Validate() error {
	if v.VariantID == "" {
		return fmt.Errorf("variantID is empty")
	}

	return nil
}

type LineItem struct {
	ID        string
	VariantID string
	Handle    string
	Title     string
	Image     string
	Price     Money
	Quantity  int
	Color     string

	AddedAt time.Time
}

func (li LineItem) LineTotal() Money {
	return li.Price.Mul(li.Quantity)
}

type CartState struct {
	Items        []LineItem
	IsDrawerOpen bool
	TotalItems   int
	TotalPacks   int
}

// Subtotal sums line totals. An empty cart yields zero in the fallback currency.
func Subtotal(items []LineItem, fallback currency.Unit) (Money, error) {
	if len(items) == 0 {
		return Money{Currency: fallback}, nil
	}

	total := Money{Currency: items[0].Price.Currency}
	for _, item := range items {
		var err error
		total, err = total.Add(item.LineTotal())
		if err != nil {
			return Money{}, fmt.Errorf("line %s: %w", item.ID, err)
		}
	}

	return total, nil
}
