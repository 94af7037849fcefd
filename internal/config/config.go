// Package config loads cartctl settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/nikolayk812/drinksip-cart/internal/cart"
	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Cart    CartConfig    `yaml:"cart"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type CartConfig struct {
	PackSize   int    `yaml:"pack_size"`
	StorageKey string `yaml:"storage_key"`
	Currency   string `yaml:"currency"`
}

type StorageConfig struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	Namespace string `yaml:"namespace"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Cart: CartConfig{
			PackSize:   domain.DefaultPackSize,
			StorageKey: cart.DefaultStorageKey,
			Currency:   "USD",
		},
		Storage: StorageConfig{
			Driver:    DriverSQLite,
			DSN:       "drinksip-cart.db",
			Namespace: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("os.ReadFile: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DRINKSIP_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("DRINKSIP_STORAGE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("DRINKSIP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Cart.PackSize <= 0 {
		return fmt.Errorf("cart.pack_size[%d] is not positive", c.Cart.PackSize)
	}
	if c.Cart.StorageKey == "" {
		return fmt.Errorf("cart.storage_key is empty")
	}
	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is empty for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver[%s] is not supported", c.Storage.Driver)
	}

	return nil
}

func (c *Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Cart.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("cart.currency[%s] is not valid: %w", c.Cart.Currency, err)
	}

	return unit, nil
}
