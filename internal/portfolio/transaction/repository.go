package transactions

import (
	"context"
	"database/sql"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByUserID(ctx context.Context, userID string) ([]models.Transaction, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
        INSERT INTO transactions (id, user_id, symbol, transaction_type, quantity, price, asset_type, currency, transaction_date, realized_pnl, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := r.db.ExecContext(ctx, query, transaction.ID, transaction.UserID, transaction.Symbol,
		transaction.TransactionKind, transaction.Quantity, transaction.Price, transaction.AssetKind,
		transaction.Currency, transaction.TransactionDate, transaction.RealizedPnL, transaction.Notes,
		transaction.CreatedAt)
	return err
}

func (r *transactionRepository) FindByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `SELECT id, user_id, symbol, transaction_type, quantity, price, asset_type, currency, transaction_date, realized_pnl, notes, created_at
              FROM transactions WHERE user_id = $1
              ORDER BY transaction_date DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.TransactionKind, &t.Quantity, &t.Price,
			&t.AssetKind, &t.Currency, &t.TransactionDate, &t.RealizedPnL, &t.Notes, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
