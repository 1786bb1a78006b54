package synchandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payledger/internal/domain/ledger"
	ledgersync "payledger/internal/domain/sync"
	"payledger/internal/transport/http/api"
	"payledger/internal/transport/http/middleware"
)

type Handler struct {
	Store       ledger.StoreAPI
	Coordinator *ledgersync.Coordinator
}

func NewHandler(store ledger.StoreAPI, coordinator *ledgersync.Coordinator) *Handler {
	return &Handler{Store: store, Coordinator: coordinator}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sync", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Post("/push", h.handlePush)
		r.Post("/pull", h.handlePull)
	})
}

type statusResponse struct {
	Endpoint    string `json:"endpoint"`
	LastSync    string `json:"lastSync"`
	LastUpdated int64  `json:"lastUpdated"`
	Enabled     bool   `json:"enabled"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	api.Success(w, statusResponse{
		Endpoint:    snap.Config.Endpoint,
		LastSync:    snap.Config.LastSync,
		LastUpdated: snap.LastUpdated,
		Enabled:     h.Coordinator != nil,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePush(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if h.Coordinator == nil {
		api.Fail(w, http.StatusConflict, "sync_disabled", "no sync endpoint configured", reqID)
		return
	}
	if err := h.Coordinator.Push(r.Context()); err != nil {
		api.Fail(w, http.StatusBadGateway, "push_failed", err.Error(), reqID)
		return
	}
	api.Success(w, map[string]bool{"pushed": true}, reqID)
}

type pullPayload struct {
	Force bool `json:"force"`
}

func (h *Handler) handlePull(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if h.Coordinator == nil {
		api.Fail(w, http.StatusConflict, "sync_disabled", "no sync endpoint configured", reqID)
		return
	}

	var payload pullPayload
	if r.Body != nil {
		// A missing or empty body means a non-forced pull.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	err := h.Coordinator.Pull(r.Context(), payload.Force)
	switch {
	case err == nil:
		api.Success(w, map[string]any{"applied": true, "ledger": h.Store.Snapshot()}, reqID)
	case errors.Is(err, ledgersync.ErrRemoteStale), errors.Is(err, ledgersync.ErrLocked):
		api.Success(w, map[string]any{"applied": false, "reason": err.Error()}, reqID)
	case errors.Is(err, ledgersync.ErrMalformedDocument):
		api.Fail(w, http.StatusBadGateway, "malformed_remote", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusBadGateway, "pull_failed", err.Error(), reqID)
	}
}
