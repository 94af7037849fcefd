// Package cart holds the shopper's cart: line items deduplicated by variant,
// grown one pack at a time, mirrored to a key/value store after every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"github.com/nikolayk812/drinksip-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const DefaultStorageKey = "drinksip-cart"

// ErrNotInitialized is the panic value raised when a Store is used without
// being built by New.
var ErrNotInitialized = errors.New("cart: store used before cart.New")

type Option func(*Store)

func WithPackSize(n int) Option {
	return func(s *Store) {
		s.packSize = n
	}
}

func WithStorageKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithCurrency sets the currency assumed for persisted lines that carry none
// and for candidates priced without one.
func WithCurrency(unit currency.Unit) Option {
	return func(s *Store) {
		s.currency = unit
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

type Store struct {
	mu sync.RWMutex

	storage  port.CartStorage
	key      string
	packSize int
	currency currency.Unit
	logger   *zap.Logger
	now      func() time.Time

	items      []domain.LineItem
	drawerOpen bool
	ready      bool
}

// New builds a Store and rehydrates it from storage. Read and decode failures
// are logged and leave the cart empty; they are never returned.
func New(ctx context.Context, storage port.CartStorage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}

	s := &Store{
		storage:  storage,
		key:      DefaultStorageKey,
		packSize: domain.DefaultPackSize,
		currency: currency.USD,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.packSize <= 0 {
		return nil, fmt.Errorf("packSize[%d] is not positive", s.packSize)
	}
	if s.key == "" {
		return nil, fmt.Errorf("storage key is empty")
	}

	s.logger = s.logger.With(zap.String("cart_key", s.key))
	s.rehydrate(ctx)
	s.ready = true

	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) {
	blob, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted cart, starting empty", zap.Error(err))
		return
	}
	if !found {
		return
	}

	records, err := decodeRecords(blob)
	if err != nil {
		s.logger.Warn("discarding corrupt persisted cart", zap.Error(err))
		return
	}

	seenVariants := make(map[string]struct{}, len(records))
	seenIDs := make(map[string]struct{}, len(records))
	for i, rec := range records {
		item, err := mapRecordToLineItem(rec, s.currency)
		if err != nil {
			s.logger.Warn("dropping persisted line", zap.Int("index", i), zap.Error(err))
			continue
		}
		if _, ok := seenVariants[item.VariantID]; ok {
			s.logger.Warn("dropping duplicate persisted line",
				zap.Int("index", i), zap.String("variant_id", item.VariantID))
			continue
		}
		// ids address lines in UpdateQuantity and RemoveItem, so they must be unique too
		if _, ok := seenIDs[item.ID]; ok {
			reissued := newLineID(item.VariantID)
			s.logger.Warn("reissuing duplicate persisted line id",
				zap.Int("index", i), zap.String("line_id", item.ID), zap.String("new_line_id", reissued))
			item.ID = reissued
		}
		seenVariants[item.VariantID] = struct{}{}
		seenIDs[item.ID] = struct{}{}
		s.items = append(s.items, item)
	}

	s.logger.Debug("cart rehydrated", zap.Int("lines", len(s.items)))
}

func (s *Store) mustBeReady() {
	if s == nil || !s.ready {
		panic(ErrNotInitialized)
	}
}

// AddItem adds one pack of the variant. A variant already in the cart grows
// by a pack instead of getting a second line. The drawer opens on every add.
func (s *Store) AddItem(ctx context.Context, variant domain.ProductVariant) (domain.LineItem, error) {
	s.mustBeReady()

	if err := variant.Validate(); err != nil {
		return domain.LineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.items, func(item domain.LineItem) bool {
		return item.VariantID == variant.VariantID
	})
	if idx >= 0 {
		s.items[idx].Quantity += s.packSize
	} else {
		price := variant.Price
		if price.Currency == (currency.Unit{}) {
			price.Currency = s.currency
		}

		s.items = append(s.items, domain.LineItem{
			ID:        newLineID(variant.VariantID),
			VariantID: variant.VariantID,
			Handle:    variant.Handle,
			Title:     variant.Title,
			Image:     variant.Image,
			Price:     price,
			Quantity:  s.packSize,
			Color:     variant.Color,
			AddedAt:   s.now().UTC(),
		})
		idx = len(s.items) - 1
	}

	s.drawerOpen = true
	s.persist(ctx)

	return s.items[idx], nil
}

// UpdateQuantity overrides a line's quantity without rounding to packs.
// A quantity of zero or less removes the line. It reports whether id matched.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	s.mustBeReady()

	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return false
	}

	s.items[idx].Quantity = quantity
	s.persist(ctx)

	return true
}

// RemoveItem reports whether a line was removed. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, id string) bool {
	s.mustBeReady()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return false
	}

	s.items = slices.Delete(s.items, idx, idx+1)
	s.persist(ctx)

	return true
}

func (s *Store) OpenDrawer() {
	s.mustBeReady()

	s.mu.Lock()
	s.drawerOpen = true
	s.mu.Unlock()
}

func (s *Store) CloseDrawer() {
	s.mustBeReady()

	s.mu.Lock()
	s.drawerOpen = false
	s.mu.Unlock()
}

func (s *Store) Items() []domain.LineItem {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

func (s *Store) IsDrawerOpen() bool {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.drawerOpen
}

func (s *Store) TotalItems() int {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.TotalItems(s.items)
}

func (s *Store) TotalPacks() int {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.TotalPacks(domain.TotalItems(s.items), s.packSize)
}

func (s *Store) PackSize() int {
	s.mustBeReady()

	return s.packSize
}

// Snapshot returns items, drawer state and totals read under one lock.
func (s *Store) Snapshot() domain.CartState {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()

	totalItems := domain.TotalItems(s.items)

	return domain.CartState{
		Items:        slices.Clone(s.items),
		IsDrawerOpen: s.drawerOpen,
		TotalItems:   totalItems,
		TotalPacks:   domain.TotalPacks(totalItems, s.packSize),
	}
}

func (s *Store) Subtotal() (domain.Money, error) {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Subtotal(s.items, s.currency)
}

func (s *Store) indexByID(id string) int {
	return slices.IndexFunc(s.items, func(item domain.LineItem) bool {
		return item.ID == id
	})
}

// persist writes the whole cart. Failures are logged only: the in-memory
// cart stays authoritative for the session. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	blob, err := encodeItems(s.items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.Error(err))
		return
	}

	if err := s.storage.Set(ctx, s.key, blob); err != nil {
		s.logger.Warn("failed to persist cart",
			zap.Error(err), zap.Int("lines", len(s.items)))
	}
}
