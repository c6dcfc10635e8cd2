package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/service"
)

// UserHandler updates the signed-in user's settings.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandlePreferences merges a partial preferences document over the stored one.
// Unknown fields are rejected so a typo does not silently do nothing.
//
// HTTP: PATCH /api/user/preferences
func (h *UserHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	var patch model.PreferencesPatch
	if err := decodeJSON(w, r, &patch, true); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpdatePreferences(r.Context(), userID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// HandleStreak sets the user's streak.
//
// HTTP: PATCH /api/user/streak   {"streak": 5}
func (h *UserHandler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req struct {
		Streak json.RawMessage `json:"streak"`
	}
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	var streak int
	if len(req.Streak) == 0 || json.Unmarshal(req.Streak, &streak) != nil {
		writeError(w, apperror.ValidationFailed("streak", "Streak must be a number"))
		return
	}

	user, err := h.users.UpdateStreak(r.Context(), userID, streak)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}
