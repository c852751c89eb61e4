package position

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
	"github.com/stretchr/testify/assert"
)

func tx(symbol string, kind models.TransactionKind, quantity, price, realizedPnL float64, day int) models.Transaction {
	date := time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
	return models.Transaction{
		ID:              uuid.New(),
		UserID:          "user-1",
		Symbol:          symbol,
		TransactionKind: kind,
		Quantity:        quantity,
		Price:           price,
		AssetKind:       models.AssetKindStock,
		Currency:        "USD",
		TransactionDate: date,
		RealizedPnL:     realizedPnL,
		CreatedAt:       date,
	}
}

func TestAggregate_AverageCostAcrossBuys(t *testing.T) {
	transactions := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("ABC", models.TransactionKindBuy, 10, 120, 0, 2),
	}

	positions := Aggregate(transactions)

	assert.Len(t, positions, 1)
	assert.Equal(t, "ABC", positions[0].Symbol)
	assert.InDelta(t, 20, positions[0].CurrentQuantity, 1e-9)
	assert.InDelta(t, 110, positions[0].AverageCost, 1e-9)
	assert.InDelta(t, 2200, positions[0].TotalCostBasis, 1e-9)
	assert.Equal(t, 2, positions[0].TransactionCount)
}

func TestAggregate_SellLeavesAverageCostUnchanged(t *testing.T) {
	transactions := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("ABC", models.TransactionKindBuy, 10, 120, 0, 2),
		tx("ABC", models.TransactionKindSell, 5, 150, 200, 3),
	}

	positions := Aggregate(transactions)

	assert.Len(t, positions, 1)
	pos := positions[0]
	assert.InDelta(t, 15, pos.CurrentQuantity, 1e-9)
	assert.InDelta(t, 110, pos.AverageCost, 1e-9)
	assert.InDelta(t, 1650, pos.TotalCostBasis, 1e-9)
	assert.InDelta(t, 200, pos.TotalRealizedPnL, 1e-9)
}

func TestAggregate_RealizedPnLRecomputedFromAverageCost(t *testing.T) {
	// The stored realized_pnl on the sell row is deliberately wrong; the
	// engine must recompute from its own running average cost.
	transactions := []models.Transaction{
		tx("XYZ", models.TransactionKindBuy, 4, 50, 0, 1),
		tx("XYZ", models.TransactionKindSell, 2, 80, 9999, 2),
	}

	positions := Aggregate(transactions)

	assert.InDelta(t, (80.0-50.0)*2, positions[0].TotalRealizedPnL, 1e-9)
}

func TestAggregate_FullyClosedPositionStillEmitted(t *testing.T) {
	transactions := []models.Transaction{
		tx("DEF", models.TransactionKindBuy, 10, 10, 0, 1),
		tx("DEF", models.TransactionKindSell, 10, 12, 20, 2),
	}

	positions := Aggregate(transactions)

	assert.Len(t, positions, 1)
	assert.InDelta(t, 0, positions[0].CurrentQuantity, 1e-9)
	assert.InDelta(t, 0, positions[0].TotalCostBasis, 1e-9)
	assert.InDelta(t, 20, positions[0].TotalRealizedPnL, 1e-9)
}

func TestAggregate_EmptyLedgerEmitsNothing(t *testing.T) {
	positions := Aggregate(nil)
	assert.Empty(t, positions)
}

func TestAggregate_Idempotent(t *testing.T) {
	transactions := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("BBC.JK", models.TransactionKindBuy, 100, 4500, 0, 1),
		tx("ABC", models.TransactionKindSell, 3, 130, 90, 2),
		tx("BTC-USD", models.TransactionKindBuy, 0.5, 60000, 0, 3),
	}

	first := Aggregate(transactions)
	second := Aggregate(transactions)

	assert.Equal(t, first, second)
}

func TestAggregate_InputOrderDoesNotMatter(t *testing.T) {
	chronological := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("ABC", models.TransactionKindBuy, 10, 120, 0, 2),
		tx("ABC", models.TransactionKindSell, 5, 150, 200, 3),
	}
	reversed := []models.Transaction{chronological[2], chronological[1], chronological[0]}

	assert.Equal(t, Aggregate(chronological), Aggregate(reversed))
}

func TestAggregate_QuantityConservation(t *testing.T) {
	transactions := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("ABC", models.TransactionKindBuy, 7, 110, 0, 2),
		tx("ABC", models.TransactionKindSell, 4, 150, 0, 3),
		tx("ABC", models.TransactionKindBuy, 2, 90, 0, 4),
		tx("ABC", models.TransactionKindSell, 5, 160, 0, 5),
	}

	positions := Aggregate(transactions)

	var bought, sold float64
	for _, t := range transactions {
		if t.TransactionKind == models.TransactionKindBuy {
			bought += t.Quantity
		} else {
			sold += t.Quantity
		}
	}
	assert.InDelta(t, bought-sold, positions[0].CurrentQuantity, 1e-9)
}

func TestAggregate_NegativeQuantityNotClamped(t *testing.T) {
	// Out-of-band rows can oversell; the engine reports the damage
	// instead of hiding it.
	transactions := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 5, 100, 0, 1),
		tx("ABC", models.TransactionKindSell, 8, 100, 0, 2),
	}

	positions := Aggregate(transactions)

	assert.InDelta(t, -3, positions[0].CurrentQuantity, 1e-9)
}

func TestAggregate_FirstAndLastDates(t *testing.T) {
	transactions := []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 1, 100, 0, 5),
		tx("ABC", models.TransactionKindBuy, 1, 100, 0, 2),
		tx("ABC", models.TransactionKindSell, 1, 110, 10, 9),
	}

	positions := Aggregate(transactions)

	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), positions[0].FirstPurchaseDate)
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), positions[0].LastTransactionDate)
	assert.Equal(t, 3, positions[0].TransactionCount)
}

func TestAggregate_SymbolsSortedAndIsolated(t *testing.T) {
	transactions := []models.Transaction{
		tx("ZZZ", models.TransactionKindBuy, 1, 10, 0, 1),
		tx("AAA", models.TransactionKindBuy, 2, 20, 0, 1),
	}

	positions := Aggregate(transactions)

	assert.Len(t, positions, 2)
	assert.Equal(t, "AAA", positions[0].Symbol)
	assert.Equal(t, "ZZZ", positions[1].Symbol)
	assert.InDelta(t, 2, positions[0].CurrentQuantity, 1e-9)
	assert.InDelta(t, 1, positions[1].CurrentQuantity, 1e-9)
}

func TestRealizedPnL(t *testing.T) {
	assert.InDelta(t, 200, RealizedPnL(110, 150, 5), 1e-9)
	assert.InDelta(t, -50, RealizedPnL(110, 100, 5), 1e-9)
}
