package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/service"
)

// FavoriteHandler manages the signed-in user's saved affirmations.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// HTTP: POST /api/favorites   {"affirmationId": "..."} → 201 {favorite, affirmation}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req struct {
		AffirmationID string `json:"affirmationId"`
	}
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	fav, err := h.favorites.Add(r.Context(), userID, req.AffirmationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

// HandleRemove succeeds whether or not the favorite existed.
//
// HTTP: DELETE /api/favorites/{affirmationId}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, r.PathValue("affirmationId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Favorite removed successfully"})
}

// HTTP: GET /api/favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	list, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
