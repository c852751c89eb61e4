package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
	transactions "github.com/nandriyanto/PortfolioTracker/internal/portfolio/transaction"
	"github.com/nandriyanto/PortfolioTracker/internal/reporting"
)

type TransactionService interface {
	RecordTransaction(ctx context.Context, userID string, input transactions.CreateTransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

type PositionService interface {
	GetCurrentPositions(ctx context.Context, userID string) ([]models.CurrentPosition, error)
	GetAggregatedPositions(ctx context.Context, userID string) ([]models.AggregatedPosition, error)
}

type ReportingService interface {
	GetSummary(ctx context.Context, userID string) (*reporting.PortfolioSummary, error)
	GetAllocation(ctx context.Context, userID string) ([]reporting.AllocationEntry, error)
	GetPerformance(ctx context.Context, userID string) ([]reporting.PerformanceEntry, error)
	GetTimeline(ctx context.Context, userID string) ([]reporting.TimelinePoint, error)
}

type PortfolioHandler struct {
	transactionService TransactionService
	positionService    PositionService
	reportingService   ReportingService
	respondJSON        func(w http.ResponseWriter, status int, payload interface{})
	respondError       func(w http.ResponseWriter, status int, message string)
}

func NewPortfolioHandler(
	transactionService TransactionService,
	positionService PositionService,
	reportingService ReportingService,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *PortfolioHandler {
	return &PortfolioHandler{
		transactionService: transactionService,
		positionService:    positionService,
		reportingService:   reportingService,
		respondJSON:        respondJSON,
		respondError:       respondError,
	}
}

func (h *PortfolioHandler) getUserIDReq(w http.ResponseWriter, r *http.Request) string {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}
	return userID
}

type createTransactionRequest struct {
	Symbol          string  `json:"symbol"`
	TransactionType string  `json:"transaction_type"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	AssetType       string  `json:"asset_type"`
	Currency        string  `json:"currency"`
	TransactionDate string  `json:"transaction_date"`
	Notes           string  `json:"notes"`
}

func isValidationError(err error) bool {
	return errors.Is(err, transactions.ErrMissingSymbol) ||
		errors.Is(err, transactions.ErrInvalidQuantity) ||
		errors.Is(err, transactions.ErrInvalidPrice) ||
		errors.Is(err, transactions.ErrInvalidTransactionKind) ||
		errors.Is(err, transactions.ErrInvalidAssetKind)
}

func (h *PortfolioHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var transactionDate time.Time
	if req.TransactionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TransactionDate)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid transaction date, expected YYYY-MM-DD")
			return
		}
		transactionDate = parsed
	}

	transaction, err := h.transactionService.RecordTransaction(r.Context(), userID, transactions.CreateTransactionInput{
		Symbol:          req.Symbol,
		TransactionKind: models.TransactionKind(req.TransactionType),
		Quantity:        req.Quantity,
		Price:           req.Price,
		AssetKind:       models.AssetKind(req.AssetType),
		Currency:        req.Currency,
		TransactionDate: transactionDate,
		Notes:           req.Notes,
	})
	if err != nil {
		if isValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, transactions.ErrInsufficientPosition) {
			h.respondError(w, http.StatusBadRequest, "Insufficient shares to sell")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully recorded.",
		"data":    transaction,
	})
}

func (h *PortfolioHandler) GetAllTransactions(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	transactionList, err := h.transactionService.ListTransactions(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}
	if transactionList == nil {
		transactionList = []models.Transaction{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"transactions": transactionList},
	})
}

func (h *PortfolioHandler) GetCurrentPositions(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	positions, err := h.positionService.GetCurrentPositions(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve current positions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"currentPositions": positions},
	})
}

func (h *PortfolioHandler) GetAggregatedPositions(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	positions, err := h.positionService.GetAggregatedPositions(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve aggregated positions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"aggregatedPositions": positions},
	})
}

func (h *PortfolioHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	summary, err := h.reportingService.GetSummary(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to compute portfolio summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

func (h *PortfolioHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	allocation, err := h.reportingService.GetAllocation(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to compute allocation")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"allocation": allocation},
	})
}

func (h *PortfolioHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	performance, err := h.reportingService.GetPerformance(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to compute performance")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"performance": performance},
	})
}

func (h *PortfolioHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	timeline, err := h.reportingService.GetTimeline(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to compute timeline")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"timeline": timeline},
	})
}
