package handler

// Every error response has the same shape:
//
//	{"error": "not_found", "message": "No mood recorded for today"}
//
// Multi-field validation failures carry the whole list as the message:
//
//	{"error": "validation_error", "message": [{"field": "username", "message": "username is required"}]}

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the error body returned by all API endpoints. Message is
// either a string or a []apperror.FieldError.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message any    `json:"message"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	FirstName     string            `json:"firstName"`
	CurrentStreak int               `json:"currentStreak"`
	Preferences   model.Preferences `json:"preferences"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		CurrentStreak: u.CurrentStreak,
		Preferences:   u.Preferences,
	}
}

// writeJSON sends data as JSON with the given status code. Headers must be
// set before WriteHeader; anything after is ignored by net/http.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// Conflicts (duplicate username, second mood of the day, repeated favorite)
// are client mistakes in this API and go out as 400. Errors that are not an
// *apperror.AppError become a generic 500; their text may contain SQL or file
// paths and is only logged.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	errorType := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		errorType = "validation_error"
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusBadRequest
		errorType = "conflict"
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
		errorType = "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		errorType = "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		errorType = "not_found"
	}

	var message any = appErr.Message
	if len(appErr.Details) > 0 {
		message = appErr.Details
	}
	if status == http.StatusInternalServerError {
		slog.Error("unclassified app error", slog.String("error", err.Error()))
		message = "An internal error occurred"
	}

	writeJSON(w, status, ErrorResponse{Error: errorType, Message: message})
}

// decodeJSON reads one JSON value from the request body into dst. With
// strict set, fields dst does not declare are rejected. Any failure is a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "Request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperror.ValidationFailed("body", "Request body too large")
		}
		return apperror.ValidationFailed("body", "Invalid JSON body: "+err.Error())
	}
	if dec.More() {
		return apperror.ValidationFailed("body", "Request body must contain a single JSON value")
	}
	return nil
}
