package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/service"
)

// AffirmationHandler serves the public affirmation catalogue.
type AffirmationHandler struct {
	affirmations *service.AffirmationService
	logger       *slog.Logger
}

func NewAffirmationHandler(affirmations *service.AffirmationService, logger *slog.Logger) *AffirmationHandler {
	return &AffirmationHandler{affirmations: affirmations, logger: logger}
}

// HandleDaily returns a random affirmation. Anonymous callers always see
// isFavorite false.
//
// HTTP: GET /api/affirmations/daily
func (h *AffirmationHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	daily, err := h.affirmations.Daily(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

// HTTP: GET /api/affirmations
func (h *AffirmationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.affirmations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HTTP: GET /api/affirmations/category/{name}
func (h *AffirmationHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := h.affirmations.ListByCategory(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HTTP: GET /api/categories
func (h *AffirmationHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.affirmations.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
