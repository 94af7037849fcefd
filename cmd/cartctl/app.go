package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/drinksip-cart/internal/cart"
	"github.com/nikolayk812/drinksip-cart/internal/config"
	"github.com/nikolayk812/drinksip-cart/internal/logging"
	"github.com/nikolayk812/drinksip-cart/internal/port"
	"github.com/nikolayk812/drinksip-cart/internal/repository"
	"go.uber.org/zap"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage port.CartStorage
	store   *cart.Store
	closer  func() error
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}

	storage, closer, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("openStorage: %w", err)
	}

	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return nil, errors.Join(err, closer())
	}

	store, err := cart.New(ctx, storage,
		cart.WithPackSize(cfg.Cart.PackSize),
		cart.WithStorageKey(cfg.Cart.StorageKey),
		cart.WithCurrency(unit),
		cart.WithLogger(logger.Named("cart")),
	)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("cart.New: %w", err), closer())
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		store:   store,
		closer:  closer,
	}, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.closer()
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (port.CartStorage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return repository.NewMemoryKV(), noop, nil

	case config.DriverSQLite:
		kv, err := repository.NewSQLiteKV(ctx, cfg.DSN, cfg.Namespace)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewSQLiteKV: %w", err)
		}
		return kv, kv.Close, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		return repository.NewPostgresKV(pool, cfg.Namespace), func() error {
			pool.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("storage driver[%s] is not supported", cfg.Driver)
	}
}
