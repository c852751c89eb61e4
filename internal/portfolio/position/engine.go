package position

import (
	"sort"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

// RealizedPnL is the profit locked in by selling quantity units at price
// against the given weighted-average cost. The write path and the
// aggregation below both go through this single formula.
func RealizedPnL(averageCost, price, quantity float64) float64 {
	return (price - averageCost) * quantity
}

// Aggregate folds a transaction ledger into one CurrentPosition per
// symbol using weighted-average-cost accounting: every buy re-blends the
// average cost, a sell reduces quantity only and leaves the average cost
// of the remaining shares untouched.
//
// The input slice is not modified and may arrive in any order; the
// engine sorts a copy chronologically (transaction date, then creation
// time). The result is a pure function of the input: the same ledger
// always yields the same positions. Symbols whose final quantity is zero
// are still emitted so callers can show fully-closed positions with
// their realized P&L. A negative running quantity is emitted as-is
// rather than clamped; sell validation happens at write time and a
// negative here means rows were inserted out of band.
func Aggregate(transactions []models.Transaction) []models.CurrentPosition {
	ordered := make([]models.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TransactionDate.Equal(ordered[j].TransactionDate) {
			return ordered[i].TransactionDate.Before(ordered[j].TransactionDate)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	states := make(map[string]*models.CurrentPosition)
	symbols := make([]string, 0)

	for _, t := range ordered {
		pos, ok := states[t.Symbol]
		if !ok {
			pos = &models.CurrentPosition{
				UserID:            t.UserID,
				Symbol:            t.Symbol,
				AssetKind:         t.AssetKind,
				Currency:          t.Currency,
				FirstPurchaseDate: t.TransactionDate,
			}
			states[t.Symbol] = pos
			symbols = append(symbols, t.Symbol)
		}

		switch t.TransactionKind {
		case models.TransactionKindBuy:
			newCostBasis := pos.CurrentQuantity*pos.AverageCost + t.Quantity*t.Price
			newQuantity := pos.CurrentQuantity + t.Quantity
			if newQuantity > 0 {
				pos.AverageCost = newCostBasis / newQuantity
			} else {
				pos.AverageCost = 0
			}
			pos.CurrentQuantity = newQuantity
		case models.TransactionKindSell:
			pos.TotalRealizedPnL += RealizedPnL(pos.AverageCost, t.Price, t.Quantity)
			pos.CurrentQuantity -= t.Quantity
		}

		if t.TransactionDate.Before(pos.FirstPurchaseDate) {
			pos.FirstPurchaseDate = t.TransactionDate
		}
		if t.TransactionDate.After(pos.LastTransactionDate) {
			pos.LastTransactionDate = t.TransactionDate
		}
		pos.TransactionCount++
	}

	sort.Strings(symbols)
	positions := make([]models.CurrentPosition, 0, len(symbols))
	for _, symbol := range symbols {
		pos := states[symbol]
		pos.TotalCostBasis = pos.CurrentQuantity * pos.AverageCost
		positions = append(positions, *pos)
	}
	return positions
}
