package reporting

import (
	"context"
	"sort"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

type PortfolioSummary struct {
	TotalValue           float64 `json:"total_value"`
	TotalCost            float64 `json:"total_cost"`
	UnrealizedPnL        float64 `json:"unrealized_pnl"`
	UnrealizedPnLPercent float64 `json:"unrealized_pnl_percentage"`
	TotalRealizedPnL     float64 `json:"total_realized_pnl"`
}

type AllocationEntry struct {
	Symbol     string           `json:"symbol"`
	AssetKind  models.AssetKind `json:"asset_type"`
	Value      float64          `json:"value"`
	Percentage float64          `json:"percentage"`
	Currency   string           `json:"currency"`
}

type PerformanceEntry struct {
	Symbol               string  `json:"symbol"`
	MarketValue          float64 `json:"market_value"`
	UnrealizedPnL        float64 `json:"unrealized_pnl"`
	UnrealizedPnLPercent float64 `json:"unrealized_pnl_percentage"`
	RealizedPnL          float64 `json:"realized_pnl"`
}

type TimelinePoint struct {
	Date               string  `json:"date"`
	CumulativeInvested float64 `json:"cumulative_invested"`
	CumulativeRealized float64 `json:"cumulative_realized"`
}

type PositionSource interface {
	GetCurrentPositions(ctx context.Context, userID string) ([]models.CurrentPosition, error)
}

type TransactionSource interface {
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

type Service interface {
	GetSummary(ctx context.Context, userID string) (*PortfolioSummary, error)
	GetAllocation(ctx context.Context, userID string) ([]AllocationEntry, error)
	GetPerformance(ctx context.Context, userID string) ([]PerformanceEntry, error)
	GetTimeline(ctx context.Context, userID string) ([]TimelinePoint, error)
}

type service struct {
	positions    PositionSource
	transactions TransactionSource
}

func NewReportingService(positions PositionSource, transactions TransactionSource) Service {
	return &service{positions: positions, transactions: transactions}
}

// marketValueUSD and costBasisUSD read the USD equivalent block when the
// position is quoted in another currency.
func marketValueUSD(pos models.CurrentPosition) float64 {
	if pos.USDEquivalent != nil {
		return pos.USDEquivalent.MarketValue
	}
	return pos.CurrentPrice * pos.CurrentQuantity
}

func costBasisUSD(pos models.CurrentPosition) float64 {
	if pos.USDEquivalent != nil {
		return pos.USDEquivalent.TotalCostBasis
	}
	return pos.TotalCostBasis
}

func (s *service) GetSummary(ctx context.Context, userID string) (*PortfolioSummary, error) {
	positions, err := s.positions.GetCurrentPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{}
	for _, pos := range positions {
		summary.TotalValue += marketValueUSD(pos)
		summary.TotalCost += costBasisUSD(pos)
		summary.TotalRealizedPnL += pos.TotalRealizedPnL
	}
	summary.UnrealizedPnL = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.UnrealizedPnLPercent = summary.UnrealizedPnL / summary.TotalCost * 100
	}
	return summary, nil
}

func (s *service) GetAllocation(ctx context.Context, userID string) ([]AllocationEntry, error) {
	positions, err := s.positions.GetCurrentPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]AllocationEntry, 0, len(positions))
	var total float64
	for _, pos := range positions {
		value := marketValueUSD(pos)
		if value <= 0 {
			continue
		}
		total += value
		entries = append(entries, AllocationEntry{
			Symbol:    pos.Symbol,
			AssetKind: pos.AssetKind,
			Value:     value,
			Currency:  pos.Currency,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if total > 0 {
		for i := range entries {
			entries[i].Percentage = entries[i].Value / total * 100
		}
	}
	return entries, nil
}

func (s *service) GetPerformance(ctx context.Context, userID string) ([]PerformanceEntry, error) {
	positions, err := s.positions.GetCurrentPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]PerformanceEntry, 0, len(positions))
	for _, pos := range positions {
		value := marketValueUSD(pos)
		if value <= 0 {
			continue
		}
		cost := costBasisUSD(pos)
		pnl := value - cost
		var pnlPercent float64
		if cost > 0 {
			pnlPercent = pnl / cost * 100
		}
		entries = append(entries, PerformanceEntry{
			Symbol:               pos.Symbol,
			MarketValue:          value,
			UnrealizedPnL:        pnl,
			UnrealizedPnLPercent: pnlPercent,
			RealizedPnL:          pos.TotalRealizedPnL,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UnrealizedPnLPercent > entries[j].UnrealizedPnLPercent
	})
	return entries, nil
}

// GetTimeline replays the ledger chronologically and emits one point per
// unique transaction date carrying the running totals of money invested
// (buy notional) and realized P&L. A later transaction on the same date
// overwrites that date's point with the newer totals.
func (s *service) GetTimeline(ctx context.Context, userID string) ([]TimelinePoint, error) {
	transactions, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	ordered := make([]models.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TransactionDate.Equal(ordered[j].TransactionDate) {
			return ordered[i].TransactionDate.Before(ordered[j].TransactionDate)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var cumulativeInvested, cumulativeRealized float64
	points := make([]TimelinePoint, 0, len(ordered))
	indexByDate := make(map[string]int)

	for _, t := range ordered {
		switch t.TransactionKind {
		case models.TransactionKindBuy:
			cumulativeInvested += t.Quantity * t.Price
		case models.TransactionKindSell:
			cumulativeRealized += t.RealizedPnL
		}

		date := t.TransactionDate.Format("2006-01-02")
		point := TimelinePoint{
			Date:               date,
			CumulativeInvested: cumulativeInvested,
			CumulativeRealized: cumulativeRealized,
		}
		if i, ok := indexByDate[date]; ok {
			points[i] = point
		} else {
			indexByDate[date] = len(points)
			points = append(points, point)
		}
	}
	return points, nil
}
