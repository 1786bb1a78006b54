package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payledger/internal/domain/ledger"
	ledgersync "payledger/internal/domain/sync"
)

// DocumentStore is what the handler needs from storage; the pgx Store
// satisfies it, tests use an in-memory fake.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Handler serves the remote end of the sync protocol: GET returns the
// document (an empty ledger before the first push, so fresh clients always
// lose last-write-wins), POST replaces it.
type Handler struct {
	Store DocumentStore
	Key   string
}

func NewHandler(store DocumentStore, key string) *Handler {
	return &Handler{Store: store, Key: key}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleGet)
	r.Post("/", h.handlePut)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	body, err := h.Store.Get(r.Context(), h.Key)
	if errors.Is(err, ErrNotFound) {
		// Explicit empty slices: clients reject a document whose employees
		// field is null.
		body, _ = json.Marshal(ledger.Ledger{
			Employees:     []ledger.Employee{},
			SalaryRecords: []ledger.SalaryRecord{},
			Advances:      []ledger.AdvanceRecord{},
			Penalties:     []ledger.PenaltyRecord{},
			Loans:         []ledger.LoanRecord{},
		})
	} else if err != nil {
		slog.Warn("document read failed", "err", err)
		http.Error(w, "document read failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}
	if _, err := ledgersync.DecodeDocument(body); err != nil {
		http.Error(w, "not a ledger document", http.StatusBadRequest)
		return
	}
	if err := h.Store.Put(r.Context(), h.Key, body); err != nil {
		slog.Warn("document write failed", "err", err)
		http.Error(w, "document write failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
