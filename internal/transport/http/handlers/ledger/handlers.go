package ledgerhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payledger/internal/domain/ledger"
	"payledger/internal/transport/http/api"
	"payledger/internal/transport/http/middleware"
)

type Handler struct {
	Store ledger.StoreAPI
}

func NewHandler(store ledger.StoreAPI) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ledger", h.handleSnapshot)
	r.Post("/ledger/purge", h.handlePurge)

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Put("/{employeeID}", h.handleUpdateEmployee)
		r.Delete("/{employeeID}", h.handleDeleteEmployee)
	})

	r.Route("/advances", func(r chi.Router) {
		r.Get("/", h.handleListAdvances)
		r.Post("/", h.handleCreateAdvance)
		r.Put("/{advanceID}", h.handleUpdateAdvance)
		r.Delete("/{advanceID}", h.handleDeleteAdvance)
	})

	r.Route("/penalties", func(r chi.Router) {
		r.Get("/", h.handleListPenalties)
		r.Post("/", h.handleCreatePenalty)
		r.Put("/{penaltyID}", h.handleUpdatePenalty)
		r.Delete("/{penaltyID}", h.handleDeletePenalty)
	})

	r.Route("/loans", func(r chi.Router) {
		r.Get("/", h.handleListLoans)
		r.Post("/", h.handleCreateLoan)
		r.Put("/{loanID}", h.handleUpdateLoan)
		r.Delete("/{loanID}", h.handleDeleteLoan)
		r.Post("/{loanID}/pause", h.handleToggleLoanPause)
	})
}

// failDomain maps domain errors onto the envelope; unknown errors are
// reported as persistence failures because mutations only fail on domain
// rules or on writing the ledger blob.
func failDomain(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, ledger.ErrEmployeeNotFound),
		errors.Is(err, ledger.ErrAdvanceNotFound),
		errors.Is(err, ledger.ErrPenaltyNotFound),
		errors.Is(err, ledger.ErrLoanNotFound),
		errors.Is(err, ledger.ErrPayoutNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, ledger.ErrRecordSettled):
		api.Fail(w, http.StatusConflict, "settled", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "could not persist ledger", reqID)
	}
}

func todayIfEmpty(date string) string {
	if date == "" {
		return time.Now().Format("2006-01-02")
	}
	return date
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Store.PurgeSettled(); err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, h.Store.Snapshot(), reqID)
}

type employeePayload struct {
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	BankType   ledger.BankType `json:"bankType"`
	BaseSalary float64         `json:"baseSalary"`
}

func (p employeePayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.BankType != ledger.BankSame && p.BankType != ledger.BankDifferent {
		return "bankType must be SAME or DIFFERENT"
	}
	if p.BaseSalary < 0 {
		return "baseSalary must not be negative"
	}
	return ""
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.Snapshot().Employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	emp, err := h.Store.AddEmployee(payload.Name, payload.Role, payload.BankType, payload.BaseSalary)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	emp, err := h.Store.UpdateEmployee(chi.URLParam(r, "employeeID"), payload.Name, payload.Role, payload.BankType, payload.BaseSalary)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeleteEmployee(chi.URLParam(r, "employeeID")); err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

type advancePayload struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
}

func (p advancePayload) validate() string {
	if p.EmployeeID == "" {
		return "employeeId is required"
	}
	if p.Amount <= 0 {
		return "amount must be positive"
	}
	return ""
}

func (h *Handler) handleListAdvances(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.Snapshot().Advances, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAdvance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload advancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	adv, err := h.Store.AddAdvance(payload.EmployeeID, todayIfEmpty(payload.Date), payload.Amount)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Created(w, adv, reqID)
}

func (h *Handler) handleUpdateAdvance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload advancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	adv, err := h.Store.UpdateAdvance(chi.URLParam(r, "advanceID"), payload.EmployeeID, todayIfEmpty(payload.Date), payload.Amount)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, adv, reqID)
}

func (h *Handler) handleDeleteAdvance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeleteAdvance(chi.URLParam(r, "advanceID")); err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

type penaltyPayload struct {
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (p penaltyPayload) validate() string {
	if p.EmployeeID == "" {
		return "employeeId is required"
	}
	if p.Amount <= 0 {
		return "amount must be positive"
	}
	if p.Description == "" {
		return "description is required"
	}
	return ""
}

func (h *Handler) handleListPenalties(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.Snapshot().Penalties, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePenalty(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload penaltyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	pen, err := h.Store.AddPenalty(payload.EmployeeID, todayIfEmpty(payload.Date), payload.Amount, payload.Description)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Created(w, pen, reqID)
}

func (h *Handler) handleUpdatePenalty(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload penaltyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	pen, err := h.Store.UpdatePenalty(chi.URLParam(r, "penaltyID"), payload.EmployeeID, todayIfEmpty(payload.Date), payload.Amount, payload.Description)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, pen, reqID)
}

func (h *Handler) handleDeletePenalty(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeletePenalty(chi.URLParam(r, "penaltyID")); err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

type loanPayload struct {
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	TotalAmount float64 `json:"totalAmount"`
	EMIAmount   float64 `json:"emiAmount"`
}

func (p loanPayload) validate() string {
	if p.EmployeeID == "" {
		return "employeeId is required"
	}
	if p.TotalAmount <= 0 {
		return "totalAmount must be positive"
	}
	if p.EMIAmount <= 0 {
		return "emiAmount must be positive"
	}
	return ""
}

func (h *Handler) handleListLoans(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.Snapshot().Loans, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	loan, err := h.Store.AddLoan(payload.EmployeeID, todayIfEmpty(payload.Date), payload.TotalAmount, payload.EMIAmount)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Created(w, loan, reqID)
}

func (h *Handler) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	loan, err := h.Store.UpdateLoan(chi.URLParam(r, "loanID"), payload.EmployeeID, todayIfEmpty(payload.Date), payload.TotalAmount, payload.EMIAmount)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, loan, reqID)
}

func (h *Handler) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeleteLoan(chi.URLParam(r, "loanID")); err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handleToggleLoanPause(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	loan, err := h.Store.ToggleLoanPause(chi.URLParam(r, "loanID"))
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, loan, reqID)
}
