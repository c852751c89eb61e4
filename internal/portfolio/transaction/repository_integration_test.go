package transactions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	database "github.com/nandriyanto/PortfolioTracker/internal/db"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("portfolio_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbService := &database.DBService{DB: db}
	require.NoError(t, dbService.EnsureSchema(ctx))

	return db
}

func TestTransactionRepository_CreateAndFindByUserID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.Transaction{
		{
			ID:              uuid.New(),
			UserID:          "user-1",
			Symbol:          "AAPL",
			TransactionKind: models.TransactionKindBuy,
			Quantity:        10,
			Price:           100,
			AssetKind:       models.AssetKindStock,
			Currency:        "USD",
			TransactionDate: base,
			Notes:           "first lot",
			CreatedAt:       base,
		},
		{
			ID:              uuid.New(),
			UserID:          "user-1",
			Symbol:          "AAPL",
			TransactionKind: models.TransactionKindSell,
			Quantity:        5,
			Price:           120,
			AssetKind:       models.AssetKindStock,
			Currency:        "USD",
			TransactionDate: base.AddDate(0, 0, 10),
			RealizedPnL:     100,
			CreatedAt:       base.AddDate(0, 0, 10),
		},
		{
			ID:              uuid.New(),
			UserID:          "user-2",
			Symbol:          "BTC-USD",
			TransactionKind: models.TransactionKindBuy,
			Quantity:        0.5,
			Price:           40000,
			AssetKind:       models.AssetKindCrypto,
			Currency:        "USD",
			TransactionDate: base,
			CreatedAt:       base,
		},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	found, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Newest transaction date first.
	assert.Equal(t, models.TransactionKindSell, found[0].TransactionKind)
	assert.InDelta(t, 100, found[0].RealizedPnL, 1e-9)
	assert.Equal(t, models.TransactionKindBuy, found[1].TransactionKind)
	assert.Equal(t, "first lot", found[1].Notes)
	assert.True(t, found[1].TransactionDate.Equal(base))

	other, err := repo.FindByUserID(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "BTC-USD", other[0].Symbol)

	none, err := repo.FindByUserID(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
