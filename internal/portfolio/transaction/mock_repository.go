package transactions

import (
	"context"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

// MockTransactionRepository is an in-memory TransactionRepository for tests.
type MockTransactionRepository struct {
	Transactions []models.Transaction
	CreateErr    error
	FindErr      error
}

func (m *MockTransactionRepository) Create(_ context.Context, transaction *models.Transaction) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) FindByUserID(_ context.Context, userID string) ([]models.Transaction, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var result []models.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}
