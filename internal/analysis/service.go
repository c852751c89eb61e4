package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

var (
	ErrNoPositions         = errors.New("no positions found")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
	ErrMissingSymbol       = errors.New("symbol is required for stock analysis")
	ErrAnalysisNotFound    = errors.New("analysis not found")
)

const (
	TypePortfolio           = "portfolio_analysis"
	TypeAggregatedPortfolio = "aggregated_portfolio_analysis"
	TypeStock               = "stock_analysis"
)

type CreatePromptInput struct {
	Type          string
	Symbol        string
	CurrentPrice  float64
	UseAggregated bool
}

type PositionSource interface {
	GetCurrentPositions(ctx context.Context, userID string) ([]models.CurrentPosition, error)
	GetAggregatedPositions(ctx context.Context, userID string) ([]models.AggregatedPosition, error)
}

type PriceProvider interface {
	GetCurrentPrice(ctx context.Context, symbol string) (*models.MarketPrice, error)
}

type Service interface {
	CreatePrompt(ctx context.Context, userID string, input CreatePromptInput) (*Analysis, error)
	SaveResult(ctx context.Context, userID string, analysisID uuid.UUID, result string) error
	ListAnalyses(ctx context.Context, userID string) ([]Analysis, error)
}

type service struct {
	analysisRepo AnalysisRepository
	positions    PositionSource
	prices       PriceProvider
}

func NewAnalysisService(repo AnalysisRepository, positions PositionSource, prices PriceProvider) Service {
	return &service{
		analysisRepo: repo,
		positions:    positions,
		prices:       prices,
	}
}

// CreatePrompt builds the requested prompt from live portfolio data and
// stores it with an empty result. The user copies the prompt into an
// external chat assistant and pastes the response back via SaveResult.
func (s *service) CreatePrompt(ctx context.Context, userID string, input CreatePromptInput) (*Analysis, error) {
	var prompt, analysisType string

	switch input.Type {
	case "portfolio":
		if input.UseAggregated {
			positions, err := s.positions.GetAggregatedPositions(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(positions) == 0 {
				return nil, ErrNoPositions
			}
			prompt = GenerateAggregatedPortfolioAnalysisPrompt(positions)
			analysisType = TypeAggregatedPortfolio
		} else {
			positions, err := s.positions.GetCurrentPositions(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(positions) == 0 {
				return nil, ErrNoPositions
			}
			prompt = GeneratePortfolioAnalysisPrompt(positions)
			analysisType = TypePortfolio
		}
	case "stock":
		if input.Symbol == "" {
			return nil, ErrMissingSymbol
		}
		currentPrice := input.CurrentPrice
		if currentPrice <= 0 {
			price, err := s.prices.GetCurrentPrice(ctx, input.Symbol)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch price for %s: %w", input.Symbol, err)
			}
			currentPrice = price.Price
		}
		prompt = GenerateStockAnalysisPrompt(input.Symbol, currentPrice)
		analysisType = TypeStock
	default:
		return nil, ErrUnknownAnalysisType
	}

	analysis := &Analysis{
		ID:           uuid.New(),
		UserID:       userID,
		AnalysisType: analysisType,
		PromptUsed:   prompt,
		Result:       "",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return analysis, nil
}

func (s *service) SaveResult(ctx context.Context, userID string, analysisID uuid.UUID, result string) error {
	affected, err := s.analysisRepo.UpdateResult(ctx, analysisID, userID, result)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	if affected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func (s *service) ListAnalyses(ctx context.Context, userID string) ([]Analysis, error) {
	return s.analysisRepo.FindByUserID(ctx, userID)
}
