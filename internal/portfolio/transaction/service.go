package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/position"
)

var (
	ErrMissingSymbol          = errors.New("symbol is required")
	ErrInvalidQuantity        = errors.New("quantity must be greater than zero")
	ErrInvalidPrice           = errors.New("price must be greater than zero")
	ErrInvalidTransactionKind = errors.New("transaction type must be 'buy' or 'sell'")
	ErrInvalidAssetKind       = errors.New("asset type must be 'stock' or 'crypto'")
	ErrInsufficientPosition   = errors.New("insufficient shares to sell")
)

type CreateTransactionInput struct {
	Symbol          string
	TransactionKind models.TransactionKind
	Quantity        float64
	Price           float64
	AssetKind       models.AssetKind
	Currency        string
	TransactionDate time.Time
	Notes           string
}

// PositionResolver answers what the user currently holds under a symbol.
// Implemented by the position service; wired after construction because
// the position service reads the ledger through this service.
type PositionResolver interface {
	CurrentPosition(ctx context.Context, userID, symbol string) (*models.CurrentPosition, error)
}

type Service interface {
	SetPositionResolver(resolver PositionResolver)
	RecordTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

type service struct {
	transactionRepo TransactionRepository
	positions       PositionResolver
}

func NewTransactionService(repo TransactionRepository) Service {
	return &service{transactionRepo: repo}
}

func (s *service) SetPositionResolver(resolver PositionResolver) {
	s.positions = resolver
}

func validate(input CreateTransactionInput) error {
	if strings.TrimSpace(input.Symbol) == "" {
		return ErrMissingSymbol
	}
	if input.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if input.Price <= 0 {
		return ErrInvalidPrice
	}
	if input.TransactionKind != models.TransactionKindBuy && input.TransactionKind != models.TransactionKindSell {
		return ErrInvalidTransactionKind
	}
	if input.AssetKind != models.AssetKindStock && input.AssetKind != models.AssetKindCrypto {
		return ErrInvalidAssetKind
	}
	return nil
}

// RecordTransaction validates and appends one ledger row. For a sell the
// current position is resolved first and the realized P&L is baked into
// the row using the pre-transaction average cost; a sell that exceeds
// the tracked quantity is rejected and nothing is written.
func (s *service) RecordTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}
	transactionDate := input.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	var realizedPnL float64
	if input.TransactionKind == models.TransactionKindSell {
		pos, err := s.positions.CurrentPosition(ctx, userID, symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve position for %s: %w", symbol, err)
		}
		if pos == nil || pos.CurrentQuantity < input.Quantity {
			return nil, ErrInsufficientPosition
		}
		realizedPnL = position.RealizedPnL(pos.AverageCost, input.Price, input.Quantity)
	}

	transaction := &models.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Symbol:          symbol,
		TransactionKind: input.TransactionKind,
		Quantity:        input.Quantity,
		Price:           input.Price,
		AssetKind:       input.AssetKind,
		Currency:        currency,
		TransactionDate: transactionDate,
		RealizedPnL:     realizedPnL,
		Notes:           input.Notes,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return transaction, nil
}

func (s *service) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.transactionRepo.FindByUserID(ctx, userID)
}
