package currency

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ExchangeRate is one persisted FX quote. Rows are append-only history;
// the current rate for a pair is the most recent by creation time.
type ExchangeRate struct {
	ID           uuid.UUID `json:"id"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	Source       string    `json:"source"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

type RateRepository interface {
	Create(ctx context.Context, rate *ExchangeRate) error
	FindLatest(ctx context.Context, from, to string) (*ExchangeRate, error)
	FindRecent(ctx context.Context, limit int) ([]ExchangeRate, error)
}

type rateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Create(ctx context.Context, rate *ExchangeRate) error {
	query := `INSERT INTO exchange_rates (id, from_currency, to_currency, rate, source, date, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, rate.ID, rate.FromCurrency, rate.ToCurrency,
		rate.Rate, rate.Source, rate.Date, rate.CreatedAt)
	return err
}

func (r *rateRepository) FindLatest(ctx context.Context, from, to string) (*ExchangeRate, error) {
	query := `SELECT id, from_currency, to_currency, rate, source, date, created_at
              FROM exchange_rates WHERE from_currency = $1 AND to_currency = $2
              ORDER BY created_at DESC LIMIT 1`

	var rate ExchangeRate
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&rate.ID, &rate.FromCurrency,
		&rate.ToCurrency, &rate.Rate, &rate.Source, &rate.Date, &rate.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) FindRecent(ctx context.Context, limit int) ([]ExchangeRate, error) {
	query := `SELECT id, from_currency, to_currency, rate, source, date, created_at
              FROM exchange_rates ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []ExchangeRate
	for rows.Next() {
		var rate ExchangeRate
		err := rows.Scan(&rate.ID, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate,
			&rate.Source, &rate.Date, &rate.CreatedAt)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
