package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/affirmations/internal/apperror"
)

// contextKey is unexported so no other package can read or overwrite the
// values stored under it.
type contextKey string

const (
	userIDKey    contextKey = "userID"
	sessionIDKey contextKey = "sessionID"
)

// RequireAuth rejects requests without a live session with 401 and stores
// the user and session ids in the context of those that have one.
func RequireAuth(m *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeUnauthorized(w)
				return
			}

			session, err := m.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, apperror.ErrUnauthorized) {
					m.logger.Error("resolving session", slog.String("error", err.Error()))
				}
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session.UserID, session.ID)))
		})
	}
}

// OptionalAuth attaches the user when a live session cookie is present and
// lets every request through regardless.
func OptionalAuth(m *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r); token != "" {
				session, err := m.Resolve(r.Context(), token)
				switch {
				case err == nil:
					r = r.WithContext(withSession(r.Context(), session.UserID, session.ID))
				case !errors.Is(err, apperror.ErrUnauthorized):
					m.logger.Error("resolving session", slog.String("error", err.Error()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user's id, or ("", false) for
// anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// SessionIDFromContext returns the id of the session that authenticated the
// request.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// ContextWithUser is used by tests of packages that sit behind RequireAuth.
func ContextWithUser(ctx context.Context, userID string) context.Context {
	return withSession(ctx, userID, "")
}

func withSession(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": "Unauthorized",
	})
}
