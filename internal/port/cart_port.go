package port

import (
	"context"
)

// CartStorage is a string-valued key/value store holding serialized carts.
type CartStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) (bool, error)
}
