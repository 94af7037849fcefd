package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

var errStorageDown = errors.New("storage unavailable")

// flakyStorage wraps a store and fails reads or writes on demand.
type flakyStorage struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
	failSet bool
	sets    int
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{values: make(map[string]string)}
}

func (f *flakyStorage) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGet {
		return "", false, errStorageDown
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *flakyStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sets++
	if f.failSet {
		return errStorageDown
	}
	f.values[key] = value
	return nil
}

func (f *flakyStorage) Delete(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.values[key]
	delete(f.values, key)
	return ok, nil
}

func (f *flakyStorage) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sets
}

func randomVariant() domain.ProductVariant {
	return domain.ProductVariant{
		VariantID: "gid://shopify/ProductVariant/" + gofakeit.DigitN(12),
		Handle:    gofakeit.Word(),
		Title:     gofakeit.BeerName(),
		Image:     gofakeit.URL(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 20)).Round(2),
			Currency: currency.USD,
		},
		Color: gofakeit.HexColor(),
	}
}

func variantWithID(id string) domain.ProductVariant {
	v := randomVariant()
	v.VariantID = id
	return v
}

func assertLineItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmpopts.EquateApproxTime(0),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
