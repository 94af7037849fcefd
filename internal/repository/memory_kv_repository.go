package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/drinksip-cart/internal/port"
)

type memoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKV() port.CartStorage {
	return &memoryKV{
		entries: make(map[string]string),
	}
}

func (r *memoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	return value, ok, nil
}

func (r *memoryKV) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = value
	return nil
}

func (r *memoryKV) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[key]
	delete(r.entries, key)
	return ok, nil
}
