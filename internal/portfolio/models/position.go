package models

import "time"

// USDEquivalent carries the USD-converted figures for a position quoted
// in another currency.
type USDEquivalent struct {
	CurrentPrice   float64 `json:"current_price"`
	AverageCost    float64 `json:"average_cost"`
	TotalCostBasis float64 `json:"total_cost_basis"`
	MarketValue    float64 `json:"market_value"`
}

// CurrentPosition is the per-(user, symbol) aggregate derived from the
// transaction ledger under weighted-average-cost accounting. It is
// recomputed on every query, never stored.
type CurrentPosition struct {
	UserID              string         `json:"user_id"`
	Symbol              string         `json:"symbol"`
	AssetKind           AssetKind      `json:"asset_type"`
	Currency            string         `json:"currency"`
	CurrentQuantity     float64        `json:"current_quantity"`
	AverageCost         float64        `json:"average_cost"`
	TotalCostBasis      float64        `json:"total_cost_basis"`
	FirstPurchaseDate   time.Time      `json:"first_purchase_date"`
	LastTransactionDate time.Time      `json:"last_transaction_date"`
	TransactionCount    int            `json:"transaction_count"`
	TotalRealizedPnL    float64        `json:"total_realized_pnl"`
	CurrentPrice        float64        `json:"current_price"`
	USDEquivalent       *USDEquivalent `json:"usd_equivalent,omitempty"`
}

// AggregatedPosition is the display projection of a CurrentPosition.
type AggregatedPosition struct {
	Symbol            string    `json:"symbol"`
	AssetKind         AssetKind `json:"asset_type"`
	TotalQuantity     float64   `json:"total_quantity"`
	AveragePrice      float64   `json:"average_price"`
	TotalCost         float64   `json:"total_cost"`
	FirstPurchaseDate time.Time `json:"first_purchase_date"`
	LastPurchaseDate  time.Time `json:"last_purchase_date"`
	PurchaseCount     int       `json:"purchase_count"`
	Currency          string    `json:"currency"`
	TotalRealizedPnL  float64   `json:"total_realized_pnl"`
	CurrentPrice      float64   `json:"current_price"`
}
