package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/drinksip-cart/internal/db"
	"github.com/nikolayk812/drinksip-cart/internal/port"
)

type postgresKV struct {
	q         *db.Queries
	pool      *pgxpool.Pool
	namespace string
}

func NewPostgresKV(pool *pgxpool.Pool, namespace string) port.CartStorage {
	return &postgresKV{
		q:         db.New(pool),
		pool:      pool,
		namespace: namespace,
	}
}

func NewPostgresKVWithTx(tx pgx.Tx, namespace string) port.CartStorage {
	return &postgresKV{
		q:         db.New(tx),
		pool:      nil, // use provided transaction instead
		namespace: namespace,
	}
}

func (r *postgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	row, err := r.q.GetEntry(ctx, db.GetEntryParams{
		Namespace: r.namespace,
		Key:       key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetEntry: %w", err)
	}

	return row.Value, true, nil
}

// Set skips the write when the stored value is already identical, so a
// rehydrated cart saved back unchanged does not bump the revision.
func (r *postgresKV) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (bool, error) {
		current, err := q.GetEntryForUpdate(ctx, db.GetEntryForUpdateParams{
			Namespace: r.namespace,
			Key:       key,
		})
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return false, fmt.Errorf("q.GetEntryForUpdate: %w", err)
		case current.Value == value:
			return false, nil
		}

		if err := q.UpsertEntry(ctx, db.UpsertEntryParams{
			Namespace: r.namespace,
			Key:       key,
			Value:     value,
		}); err != nil {
			return false, fmt.Errorf("q.UpsertEntry: %w", err)
		}

		return true, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *postgresKV) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	rowsAffected, err := r.q.DeleteEntry(ctx, db.DeleteEntryParams{
		Namespace: r.namespace,
		Key:       key,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteEntry: %w", err)
	}

	return rowsAffected > 0, nil
}
