package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/auth"
	"github.com/boardmate/boardmate/internal/service"
)

// AuthHandler serves the guest session endpoints.
type AuthHandler struct {
	auths  *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auths *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auths: auths, logger: logger}
}

// HandleGuestLogin signs a guest in.
//
// POST /api/auth/guest  {"nickname": "..."}
//
// Responds 201 with the created user and session, and sets the session
// cookie the middleware reads on later requests.
func (h *AuthHandler) HandleGuestLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nickname string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be a JSON object"))
		return
	}

	res, err := h.auths.GuestLogin(r.Context(), body.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    res.User,
		"session": res.Session,
	})
}

// HandleSignOut clears the session slot and expires the cookie.
//
// POST /api/auth/signout
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auths.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleSession returns the persisted session, or null when nobody is
// signed in.
//
// GET /api/auth/session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.auths.CurrentSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
