package currency

import (
	"encoding/json"
	"net/http"
	"time"
)

type RateHandler struct {
	service      Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewRateHandler(
	service Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *RateHandler {
	return &RateHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// GetRates answers a single pair when from/to are given, otherwise the
// most recent persisted rates.
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from != "" && to != "" {
		rate := h.service.GetRate(r.Context(), from, to)
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]interface{}{
				"from_currency": from,
				"to_currency":   to,
				"rate":          rate,
				"timestamp":     time.Now().UTC().Format(time.RFC3339),
			},
		})
		return
	}

	rates, err := h.service.ListRecentRates(r.Context(), 10)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to fetch exchange rates")
		return
	}
	if rates == nil {
		rates = []ExchangeRate{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"rates": rates},
	})
}

type updateRateRequest struct {
	Action       string  `json:"action"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Rate         float64 `json:"rate"`
}

func (h *RateHandler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	var req updateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case req.Action == "refresh":
		results := h.service.RefreshCommonPairs(r.Context())
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "Exchange rates refreshed",
			"data":    map[string]interface{}{"results": results},
		})
	case req.Action == "update" && req.FromCurrency != "" && req.ToCurrency != "" && req.Rate > 0:
		if err := h.service.UpdateRate(r.Context(), req.FromCurrency, req.ToCurrency, req.Rate, "manual"); err != nil {
			h.respondError(w, http.StatusInternalServerError, "Failed to update exchange rate")
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "Exchange rate updated successfully",
		})
	default:
		h.respondError(w, http.StatusBadRequest, "Invalid action or missing parameters")
	}
}
