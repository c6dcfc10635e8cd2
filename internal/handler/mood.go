package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/service"
)

// MoodHandler records and reads the signed-in user's moods.
type MoodHandler struct {
	moods  *service.MoodService
	logger *slog.Logger
}

func NewMoodHandler(moods *service.MoodService, logger *slog.Logger) *MoodHandler {
	return &MoodHandler{moods: moods, logger: logger}
}

type recordMoodRequest struct {
	Mood string     `json:"mood"`
	Date *time.Time `json:"date"`
}

// HandleRecord stores today's mood. A second mood on the same day is 400.
//
// HTTP: POST /api/moods   {"mood": "happy", "date": "2024-03-10T09:00:00Z"?}
func (h *MoodHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req recordMoodRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	mood, err := h.moods.Record(r.Context(), userID, req.Mood, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mood)
}

// HTTP: GET /api/moods/today
func (h *MoodHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	mood, err := h.moods.Today(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mood)
}

// HTTP: GET /api/moods
func (h *MoodHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	moods, err := h.moods.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}
