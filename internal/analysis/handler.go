package analysis

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

type AnalysisHandler struct {
	service      Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewAnalysisHandler(
	service Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AnalysisHandler) getUserIDReq(w http.ResponseWriter, r *http.Request) string {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}
	return userID
}

type createPromptRequest struct {
	Type          string  `json:"type"`
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	UseAggregated *bool   `json:"use_aggregated"`
}

func (h *AnalysisHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var req createPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	useAggregated := true
	if req.UseAggregated != nil {
		useAggregated = *req.UseAggregated
	}

	result, err := h.service.CreatePrompt(r.Context(), userID, CreatePromptInput{
		Type:          req.Type,
		Symbol:        req.Symbol,
		CurrentPrice:  req.CurrentPrice,
		UseAggregated: useAggregated,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoPositions):
			h.respondError(w, http.StatusBadRequest, "No positions found")
		case errors.Is(err, ErrUnknownAnalysisType):
			h.respondError(w, http.StatusBadRequest, "Unknown analysis type")
		case errors.Is(err, ErrMissingSymbol):
			h.respondError(w, http.StatusBadRequest, "Symbol is required for stock analysis")
		default:
			h.respondError(w, http.StatusInternalServerError, "Failed to generate analysis prompt")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

type saveResultRequest struct {
	Result string `json:"result"`
}

func (h *AnalysisHandler) SaveResult(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	analysisID, err := uuid.Parse(r.PathValue("analysisID"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	var req saveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Result == "" {
		h.respondError(w, http.StatusBadRequest, "Result is required")
		return
	}

	if err := h.service.SaveResult(r.Context(), userID, analysisID, req.Result); err != nil {
		if errors.Is(err, ErrAnalysisNotFound) {
			h.respondError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to save analysis result")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Analysis result saved.",
	})
}

func (h *AnalysisHandler) GetAllAnalyses(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	analyses, err := h.service.ListAnalyses(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve analyses")
		return
	}
	if analyses == nil {
		analyses = []Analysis{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"analyses": analyses},
	})
}
