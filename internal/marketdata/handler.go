package marketdata

import (
	"context"
	"net/http"
	"strings"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

const maxBatchSymbols = 20

type Service interface {
	GetCurrentPrice(ctx context.Context, symbol string) (*models.MarketPrice, error)
	GetMultiplePrices(ctx context.Context, symbols []string) []models.MarketPrice
}

type PriceHandler struct {
	service      Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewPriceHandler(
	service Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *PriceHandler {
	return &PriceHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *PriceHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	symbolsParam := r.URL.Query().Get("symbols")

	if symbol == "" && symbolsParam == "" {
		h.respondError(w, http.StatusBadRequest, "Either symbols or symbol parameter is required")
		return
	}

	if symbol != "" {
		price, err := h.service.GetCurrentPrice(r.Context(), symbol)
		if err != nil {
			h.respondError(w, http.StatusNotFound, "Failed to fetch price data")
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"price": price},
		})
		return
	}

	symbols := make([]string, 0)
	for _, s := range strings.Split(symbolsParam, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) > maxBatchSymbols {
		h.respondError(w, http.StatusBadRequest, "Too many symbols (max 20)")
		return
	}

	prices := h.service.GetMultiplePrices(r.Context(), symbols)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"prices": prices},
	})
}
