package payouthandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

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
	r.Route("/payouts", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSettle)
		r.Put("/{payoutID}", h.handleUpdate)
		r.Delete("/{payoutID}", h.handleDelete)
		r.Get("/{payoutID}/payslip", h.handlePayslip)
	})
}

type payoutPayload struct {
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	BankCharges float64 `json:"bankCharges"`
	Notes       string  `json:"notes"`
}

func (p payoutPayload) validate() string {
	if p.EmployeeID == "" {
		return "employeeId is required"
	}
	if p.BankCharges < 0 {
		return "bankCharges must not be negative"
	}
	return ""
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.Snapshot().SalaryRecords, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSettle(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload payoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	if payload.Date == "" {
		payload.Date = time.Now().Format("2006-01-02")
	}

	rec, err := h.Store.SettlePayout(payload.EmployeeID, payload.Date, payload.BankCharges, payload.Notes)
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Created(w, rec, reqID)
}

// handleUpdate overwrites only date, employee and bank charges. The frozen
// deductions are the point, not an omission: re-deriving them would consume
// records a second time.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload payoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if msg := payload.validate(); msg != "" {
		api.Fail(w, http.StatusBadRequest, "validation", msg, reqID)
		return
	}
	if payload.Date == "" {
		api.Fail(w, http.StatusBadRequest, "validation", "date is required", reqID)
		return
	}

	rec, err := h.Store.UpdatePayout(chi.URLParam(r, "payoutID"), payload.EmployeeID, payload.Date, payload.BankCharges)
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeletePayout(chi.URLParam(r, "payoutID")); err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	rec, err := h.Store.Payout(chi.URLParam(r, "payoutID"))
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}

	employeeName := "Unknown"
	employeeRole := ""
	if emp, err := h.Store.Employee(rec.EmployeeID); err == nil {
		employeeName = emp.Name
		employeeRole = emp.Role
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	if employeeRole != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Role: %s", employeeRole))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", rec.Date))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base Salary: %.2f", rec.BaseSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Advance Deduction: %.2f", rec.AdvanceDeduction))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Penalty Deduction: %.2f", rec.PenaltyDeduction))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Loan EMI: %.2f", rec.LoanEMIDeduction))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bank Charges (billed separately): %.2f", rec.BankCharges))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net Salary: %.2f", rec.NetSalary))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", rec.ID))
	if err := pdf.Output(w); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "payslip generation failed", reqID)
	}
}

func (h *Handler) failDomain(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, ledger.ErrEmployeeNotFound), errors.Is(err, ledger.ErrPayoutNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "could not persist ledger", reqID)
	}
}
