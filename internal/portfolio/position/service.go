package position

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

type TransactionSource interface {
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

type PriceProvider interface {
	GetMultiplePrices(ctx context.Context, symbols []string) []models.MarketPrice
}

type RateProvider interface {
	GetRate(ctx context.Context, from, to string) float64
}

type Service interface {
	// CurrentPosition resolves one symbol's derived position without any
	// price enrichment. Returns (nil, nil) when the user holds nothing
	// under that symbol. The transaction write path uses this for its
	// sell check.
	CurrentPosition(ctx context.Context, userID, symbol string) (*models.CurrentPosition, error)
	GetCurrentPositions(ctx context.Context, userID string) ([]models.CurrentPosition, error)
	GetAggregatedPositions(ctx context.Context, userID string) ([]models.AggregatedPosition, error)
}

type service struct {
	transactions TransactionSource
	prices       PriceProvider
	rates        RateProvider
}

func NewPositionService(transactions TransactionSource, prices PriceProvider, rates RateProvider) Service {
	return &service{
		transactions: transactions,
		prices:       prices,
		rates:        rates,
	}
}

func (s *service) aggregate(ctx context.Context, userID string) ([]models.CurrentPosition, error) {
	transactions, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return Aggregate(transactions), nil
}

func (s *service) CurrentPosition(ctx context.Context, userID, symbol string) (*models.CurrentPosition, error) {
	positions, err := s.aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)
	for i := range positions {
		if positions[i].Symbol == symbol {
			return &positions[i], nil
		}
	}
	return nil, nil
}

func (s *service) GetCurrentPositions(ctx context.Context, userID string) ([]models.CurrentPosition, error) {
	positions, err := s.aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return []models.CurrentPosition{}, nil
	}

	symbols := make([]string, 0, len(positions))
	for _, pos := range positions {
		symbols = append(symbols, pos.Symbol)
	}

	priceMap := make(map[string]models.MarketPrice)
	for _, price := range s.prices.GetMultiplePrices(ctx, symbols) {
		priceMap[price.Symbol] = price
	}

	for i := range positions {
		s.enrich(ctx, &positions[i], priceMap)
	}
	return positions, nil
}

// enrich attaches the live price and, for non-USD positions, the USD
// equivalent block. A missing price leaves CurrentPrice at zero; the
// position still renders.
func (s *service) enrich(ctx context.Context, pos *models.CurrentPosition, priceMap map[string]models.MarketPrice) {
	marketData, priced := priceMap[pos.Symbol]
	if priced {
		pos.CurrentPrice = marketData.Price
		if marketData.Currency != "" {
			pos.Currency = marketData.Currency
		}
	}
	if pos.Currency == "" {
		pos.Currency = "USD"
	}

	if pos.Currency == "USD" {
		return
	}

	rate := s.rates.GetRate(ctx, pos.Currency, "USD")
	usdPrice := 0.0
	if pos.CurrentPrice > 0 {
		usdPrice = pos.CurrentPrice * rate
	}
	pos.USDEquivalent = &models.USDEquivalent{
		CurrentPrice:   usdPrice,
		AverageCost:    pos.AverageCost * rate,
		TotalCostBasis: pos.TotalCostBasis * rate,
		MarketValue:    usdPrice * pos.CurrentQuantity,
	}
}

func (s *service) GetAggregatedPositions(ctx context.Context, userID string) ([]models.AggregatedPosition, error) {
	positions, err := s.GetCurrentPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].LastTransactionDate.After(positions[j].LastTransactionDate)
	})

	aggregated := make([]models.AggregatedPosition, 0, len(positions))
	for _, pos := range positions {
		aggregated = append(aggregated, models.AggregatedPosition{
			Symbol:            pos.Symbol,
			AssetKind:         pos.AssetKind,
			TotalQuantity:     pos.CurrentQuantity,
			AveragePrice:      pos.AverageCost,
			TotalCost:         pos.TotalCostBasis,
			FirstPurchaseDate: pos.FirstPurchaseDate,
			LastPurchaseDate:  pos.LastTransactionDate,
			PurchaseCount:     pos.TransactionCount,
			Currency:          pos.Currency,
			TotalRealizedPnL:  pos.TotalRealizedPnL,
			CurrentPrice:      pos.CurrentPrice,
		})
	}
	return aggregated, nil
}
