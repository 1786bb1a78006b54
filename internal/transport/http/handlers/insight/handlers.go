package insighthandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payledger/internal/domain/ledger"
	"payledger/internal/transport/http/api"
	"payledger/internal/transport/http/middleware"
)

// Summarizer is satisfied by insight.Advisor.
type Summarizer interface {
	FinancialSummary(ctx context.Context, l ledger.Ledger, emp ledger.Employee) string
}

type Handler struct {
	Store   ledger.StoreAPI
	Advisor Summarizer
}

func NewHandler(store ledger.StoreAPI, advisor Summarizer) *Handler {
	return &Handler{Store: store, Advisor: advisor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/{employeeID}/insight", h.handleInsight)
}

func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Store.Employee(chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, ledger.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal", "employee lookup failed", reqID)
		return
	}

	summary := h.Advisor.FinancialSummary(r.Context(), h.Store.Snapshot(), emp)
	api.Success(w, map[string]string{"insight": summary}, reqID)
}
