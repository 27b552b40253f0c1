package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pos-till/internal/middleware"
	"pos-till/internal/service"
)

// HistoryHandler handles HTTP requests for sales history and summaries
type HistoryHandler struct {
	reporting service.ReportingService
	logger    *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(reporting service.ReportingService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{reporting: reporting, logger: logger}
}

// RegisterRoutes registers all history routes
func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/receipts", func(r chi.Router) {
		r.Get("/", h.ListReceipts)
		r.Get("/{id}", h.GetReceipt)
		r.Delete("/", h.ResetSales)
	})

	r.Get("/api/summary", h.SalesSummary)
}

// ListReceipts returns header summaries, newest first; ?limit= caps the
// result, defaulting to the configured history limit.
func (h *HistoryHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	summaries, err := h.reporting.ListReceipts(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summaries)
}

// GetReceipt returns the full receipt with its lines, or 404.
func (h *HistoryHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	receipt, err := h.reporting.GetReceipt(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get receipt", zap.Int64("receipt_id", id), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}
	if receipt == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "receipt not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, receipt)
}

// SalesSummary returns ledger-wide and today's aggregates.
func (h *HistoryHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporting.SalesSummary(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute sales summary", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// ResetSales wipes the ledger. Explicit maintenance operation.
func (h *HistoryHandler) ResetSales(w http.ResponseWriter, r *http.Request) {
	if err := h.reporting.ResetSales(r.Context()); err != nil {
		h.logger.Error("Failed to reset sales", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Warn("Sales ledger reset")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
