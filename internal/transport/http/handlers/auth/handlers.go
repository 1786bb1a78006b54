package authhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payledger/internal/auth"
	"payledger/internal/transport/http/api"
	"payledger/internal/transport/http/middleware"
)

type Handler struct {
	PasscodeHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

func NewHandler(passcodeHash, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{PasscodeHash: passcodeHash, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

type loginPayload struct {
	Passcode string `json:"passcode"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if payload.Passcode == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "passcode is required", reqID)
		return
	}

	if err := auth.CheckPasscode(h.PasscodeHash, payload.Passcode); err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "incorrect passcode", reqID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "token generation failed", reqID)
		return
	}
	api.Success(w, loginResponse{Token: token, ExpiresIn: int64(h.TokenTTL.Seconds())}, reqID)
}
