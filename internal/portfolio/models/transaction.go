package models

import (
	"github.com/google/uuid"
	"time"
)

type TransactionKind string

const (
	TransactionKindBuy  TransactionKind = "buy"
	TransactionKindSell TransactionKind = "sell"
)

type AssetKind string

const (
	AssetKindStock  AssetKind = "stock"
	AssetKindCrypto AssetKind = "crypto"
)

// Transaction is a single immutable ledger entry. Rows are never updated
// or deleted; every position is derived from them.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"user_id"`
	Symbol          string          `json:"symbol"`
	TransactionKind TransactionKind `json:"transaction_type"`
	Quantity        float64         `json:"quantity"`
	Price           float64         `json:"price"`
	AssetKind       AssetKind       `json:"asset_type"`
	Currency        string          `json:"currency"`
	TransactionDate time.Time       `json:"transaction_date"`
	RealizedPnL     float64         `json:"realized_pnl"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
