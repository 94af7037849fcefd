package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/drinksip-cart/internal/cart"
	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"github.com/nikolayk812/drinksip-cart/internal/port"
	"github.com/nikolayk812/drinksip-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type postgresKVSuite struct {
	suite.Suite

	repo port.CartStorage
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestPostgresKVSuite(t *testing.T) {
	suite.Run(t, new(postgresKVSuite))
}

// before all tests in the suite
func (suite *postgresKVSuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewPostgresKV(suite.pool, gofakeit.UUID())
}

// after all tests in the suite
func (suite *postgresKVSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *postgresKVSuite) TestContract() {
	runStorageContract(suite.T(), suite.repo)
}

func (suite *postgresKVSuite) TestSetUnchangedKeepsRevision() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	key := gofakeit.UUID()

	require.NoError(t, suite.repo.Set(ctx, key, "[]"))
	require.NoError(t, suite.repo.Set(ctx, key, "[]"))
	assert.Equal(t, int64(1), suite.revision(key))

	require.NoError(t, suite.repo.Set(ctx, key, `[{"variantId":"v1"}]`))
	assert.Equal(t, int64(2), suite.revision(key))
}

func (suite *postgresKVSuite) TestNamespacesAreIsolated() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	alice := repository.NewPostgresKV(suite.pool, "alice")
	bob := repository.NewPostgresKV(suite.pool, "bob")

	require.NoError(t, alice.Set(ctx, cart.DefaultStorageKey, "alice-cart"))

	_, found, err := bob.Get(ctx, cart.DefaultStorageKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func (suite *postgresKVSuite) TestWithTxRollback() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	key := gofakeit.UUID()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	txRepo := repository.NewPostgresKVWithTx(tx, "tx")
	require.NoError(t, txRepo.Set(ctx, key, "pending"))

	value, found, err := txRepo.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "pending", value)

	require.NoError(t, tx.Rollback(ctx))

	_, found, err = repository.NewPostgresKV(suite.pool, "tx").Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func (suite *postgresKVSuite) TestCartRoundTrip() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	storage := repository.NewPostgresKV(suite.pool, gofakeit.UUID())

	store, err := cart.New(ctx, storage)
	require.NoError(t, err)

	_, err = store.AddItem(ctx, domain.ProductVariant{
		VariantID: "abc",
		Title:     "Hazy IPA",
		Price:     domain.Money{Amount: decimal.RequireFromString("4.99"), Currency: currency.USD},
	})
	require.NoError(t, err)

	fresh, err := cart.New(ctx, storage)
	require.NoError(t, err)

	items := fresh.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.True(t, items[0].Price.Amount.Equal(decimal.RequireFromString("4.99")))
}

func (suite *postgresKVSuite) revision(key string) int64 {
	var revision int64
	err := suite.pool.QueryRow(suite.T().Context(),
		"SELECT revision FROM kv_entries WHERE key = $1", key).Scan(&revision)
	suite.Require().NoError(err)

	return revision
}

func (suite *postgresKVSuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE kv_entries")
	suite.NoError(err)
}
