package position

import (
	"context"
	"testing"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
	"github.com/stretchr/testify/assert"
)

type stubTransactionSource struct {
	transactions []models.Transaction
	err          error
}

func (s *stubTransactionSource) ListTransactions(_ context.Context, _ string) ([]models.Transaction, error) {
	return s.transactions, s.err
}

type stubPriceProvider struct {
	prices map[string]models.MarketPrice
}

func (s *stubPriceProvider) GetMultiplePrices(_ context.Context, symbols []string) []models.MarketPrice {
	result := make([]models.MarketPrice, 0, len(symbols))
	for _, symbol := range symbols {
		if price, ok := s.prices[symbol]; ok {
			result = append(result, price)
		}
	}
	return result
}

type stubRateProvider struct {
	rates map[string]float64
}

func (s *stubRateProvider) GetRate(_ context.Context, from, to string) float64 {
	if rate, ok := s.rates[from+"-"+to]; ok {
		return rate
	}
	return 1
}

func TestCurrentPosition_ReturnsNilWhenAbsent(t *testing.T) {
	service := NewPositionService(&stubTransactionSource{}, &stubPriceProvider{}, &stubRateProvider{})

	pos, err := service.CurrentPosition(context.Background(), "user-1", "ABC")

	assert.NoError(t, err)
	assert.Nil(t, pos)
}

func TestCurrentPosition_MatchesSymbolCaseInsensitively(t *testing.T) {
	source := &stubTransactionSource{transactions: []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
	}}
	service := NewPositionService(source, &stubPriceProvider{}, &stubRateProvider{})

	pos, err := service.CurrentPosition(context.Background(), "user-1", "abc")

	assert.NoError(t, err)
	assert.NotNil(t, pos)
	assert.InDelta(t, 10, pos.CurrentQuantity, 1e-9)
}

func TestGetCurrentPositions_EnrichesWithPrices(t *testing.T) {
	source := &stubTransactionSource{transactions: []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
	}}
	prices := &stubPriceProvider{prices: map[string]models.MarketPrice{
		"ABC": {Symbol: "ABC", Price: 120, Currency: "USD"},
	}}
	service := NewPositionService(source, prices, &stubRateProvider{})

	positions, err := service.GetCurrentPositions(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, positions, 1)
	assert.InDelta(t, 120, positions[0].CurrentPrice, 1e-9)
	assert.Nil(t, positions[0].USDEquivalent, "USD positions carry no conversion block")
}

func TestGetCurrentPositions_MissingPriceIsNotFatal(t *testing.T) {
	source := &stubTransactionSource{transactions: []models.Transaction{
		tx("ABC", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("XYZ", models.TransactionKindBuy, 5, 50, 0, 1),
	}}
	prices := &stubPriceProvider{prices: map[string]models.MarketPrice{
		"ABC": {Symbol: "ABC", Price: 120, Currency: "USD"},
	}}
	service := NewPositionService(source, prices, &stubRateProvider{})

	positions, err := service.GetCurrentPositions(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, positions, 2)
	assert.InDelta(t, 0, positions[1].CurrentPrice, 1e-9)
}

func TestGetCurrentPositions_ForeignCurrencyGetsUSDEquivalent(t *testing.T) {
	transactions := []models.Transaction{
		tx("BBCA.JK", models.TransactionKindBuy, 100, 9000, 0, 1),
	}
	transactions[0].Currency = "IDR"
	source := &stubTransactionSource{transactions: transactions}
	prices := &stubPriceProvider{prices: map[string]models.MarketPrice{
		"BBCA.JK": {Symbol: "BBCA.JK", Price: 10000, Currency: "IDR"},
	}}
	rates := &stubRateProvider{rates: map[string]float64{"IDR-USD": 0.0001}}
	service := NewPositionService(source, prices, rates)

	positions, err := service.GetCurrentPositions(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, positions, 1)
	usd := positions[0].USDEquivalent
	assert.NotNil(t, usd)
	assert.InDelta(t, 1.0, usd.CurrentPrice, 1e-9)
	assert.InDelta(t, 0.9, usd.AverageCost, 1e-9)
	assert.InDelta(t, 90, usd.TotalCostBasis, 1e-9)
	assert.InDelta(t, 100, usd.MarketValue, 1e-9)
}

func TestGetAggregatedPositions_ProjectionAndOrder(t *testing.T) {
	source := &stubTransactionSource{transactions: []models.Transaction{
		tx("OLD", models.TransactionKindBuy, 10, 100, 0, 1),
		tx("NEW", models.TransactionKindBuy, 5, 50, 0, 9),
	}}
	service := NewPositionService(source, &stubPriceProvider{}, &stubRateProvider{})

	aggregated, err := service.GetAggregatedPositions(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, aggregated, 2)
	assert.Equal(t, "NEW", aggregated[0].Symbol, "most recently traded first")
	assert.Equal(t, "OLD", aggregated[1].Symbol)
	assert.InDelta(t, 100, aggregated[1].AveragePrice, 1e-9)
	assert.InDelta(t, 1000, aggregated[1].TotalCost, 1e-9)
	assert.Equal(t, 1, aggregated[1].PurchaseCount)
}

func TestGetCurrentPositions_EmptyLedger(t *testing.T) {
	service := NewPositionService(&stubTransactionSource{}, &stubPriceProvider{}, &stubRateProvider{})

	positions, err := service.GetCurrentPositions(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Empty(t, positions)
}
