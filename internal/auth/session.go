// Server-side sessions behind a signed cookie.
//
// HOW A LOGIN WORKS:
//
//	1. Start inserts a session row (random UUID, user id, expiry).
//	2. The session id is signed into an HS256 JWT.
//	3. The JWT goes out as the affirm_session cookie (HttpOnly, SameSite=Lax).
//
// On every request Resolve verifies the signature and then loads the row.
//
// WHY NOT A PURE JWT?
// A stateless token cannot be revoked. Someone holding a copy of the cookie
// could keep using it after the user logs out. Keeping the row means logout
// deletes it and every copy of the cookie stops working at once. The
// signature still lets us reject forged or mangled cookies without a
// database round trip.
//
// Expired rows are removed by RunJanitor on a ticker; Resolve also refuses
// (and deletes) an expired row it happens to load first.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// CookieName is the name of the session cookie.
const CookieName = "affirm_session"

// DefaultSessionTTL is used when SessionConfig.TTL is zero.
const DefaultSessionTTL = 7 * 24 * time.Hour

type SessionConfig struct {
	TTL          time.Duration
	SecureCookie bool // set Secure on the cookie; requires HTTPS
}

// Ticket is a freshly started session, ready to be written as a cookie.
type Ticket struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// SessionManager owns the lifecycle of logins: it creates session rows,
// signs the cookie that points at them, resolves incoming cookies back to a
// session, and deletes sessions on logout or expiry.
type SessionManager struct {
	sessions repository.SessionRepository
	tokens   *TokenService
	cfg      SessionConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewSessionManager(
	sessions repository.SessionRepository,
	tokens *TokenService,
	cfg SessionConfig,
	logger *slog.Logger,
) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &SessionManager{
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start creates a session for userID and returns its signed token.
func (m *SessionManager) Start(ctx context.Context, userID string) (*Ticket, error) {
	now := m.now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth: starting session: %w", err)
	}

	token, err := m.tokens.Sign(session.ID, userID, now, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &Ticket{Token: token, SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

// Resolve turns a cookie value into its live session. Any reason the token
// cannot be honoured (bad signature, unknown or expired session, subject
// mismatch) is reported as apperror.ErrUnauthorized; other errors are
// storage failures.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*model.Session, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Unauthorized("Unauthorized")
	}

	session, err := m.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Unauthorized")
		}
		return nil, fmt.Errorf("auth: resolving session: %w", err)
	}

	if session.UserID != claims.UserID {
		m.logger.Warn("session subject mismatch",
			slog.String("sessionID", session.ID),
		)
		return nil, apperror.Unauthorized("Unauthorized")
	}

	if session.Expired(m.now()) {
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			m.logger.Error("deleting expired session", slog.String("error", err.Error()))
		}
		return nil, apperror.Unauthorized("Unauthorized")
	}

	return session, nil
}

// End deletes the session a token refers to. Tokens that no longer verify
// are ignored, so logging out twice is harmless.
func (m *SessionManager) End(ctx context.Context, token string) error {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := m.sessions.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("auth: ending session: %w", err)
	}
	return nil
}

// RunJanitor deletes expired sessions every interval until ctx is done.
func (m *SessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *SessionManager) sweep(ctx context.Context) {
	n, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Error("session janitor", slog.String("error", err.Error()))
		}
		return
	}
	if n > 0 {
		m.logger.Info("expired sessions removed", slog.Int64("count", n))
	}
}

// SetCookie writes the session cookie for t.
//
// HttpOnly keeps the token out of reach of page scripts; SameSite=Lax stops
// it riding along on cross-site POSTs.
func (m *SessionManager) SetCookie(w http.ResponseWriter, t *Ticket) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    t.Token,
		Path:     "/",
		Expires:  t.ExpiresAt,
		MaxAge:   int(time.Until(t.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie tells the browser to drop the session cookie.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the session cookie value, or "" when absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
