package handler

import (
	"log/slog"
	"net/http"

	"github.com/boardmate/boardmate/internal/auth"
	"github.com/boardmate/boardmate/internal/service"
)

// UserHandler serves profile endpoints.
type UserHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewUserHandler(profiles *service.ProfileService, logger *slog.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

// HandleGet returns a user's profile.
//
// GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate patches the acting guest's own profile.
//
// PUT /api/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	actor, _ := auth.UserIDFromContext(r.Context())
	user, err := h.profiles.Update(r.Context(), actor, r.PathValue("id"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
