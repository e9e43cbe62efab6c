package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"vinfast/dashboard/internal/service/gateway"
	"vinfast/dashboard/internal/session"

	"github.com/rs/zerolog"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type SessionHandler struct {
	session *session.Session
	auth    Authenticator
	log     zerolog.Logger
}

func NewSessionHandler(s *session.Session, auth Authenticator, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{session: s, auth: auth, log: log}
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
}

type SaveTokenRequest struct {
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.describe(r.Context()))
}

func (h *SessionHandler) SaveToken(w http.ResponseWriter, r *http.Request) {
	var req SaveTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.session.SaveToken(r.Context(), req.Token); err != nil {
		h.log.Error().Err(err).Msg("failed to save token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.describe(r.Context()))
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.log.Warn().Err(err).Msg("login through gateway failed")
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}

	if err := h.session.SaveToken(r.Context(), token); err != nil {
		h.log.Error().Err(err).Msg("failed to save token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.describe(r.Context()))
}

func (h *SessionHandler) describe(ctx context.Context) SessionResponse {
	if len(h.session.AuthHeader(ctx)) == 0 {
		return SessionResponse{}
	}
	id, _ := h.session.CurrentUserID(ctx)
	return SessionResponse{Authenticated: true, UserID: id}
}
