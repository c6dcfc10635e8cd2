package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/service"
)

// AuthHandler serves registration, login, logout and the current-user lookup.
type AuthHandler struct {
	auth     *service.AuthService
	users    *service.UserService
	sessions *auth.SessionManager
	logger   *slog.Logger
}

func NewAuthHandler(
	authSvc *service.AuthService,
	users *service.UserService,
	sessions *auth.SessionManager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{auth: authSvc, users: users, sessions: sessions, logger: logger}
}

type registerRequest struct {
	Username      string                  `json:"username"`
	Password      string                  `json:"password"`
	FirstName     string                  `json:"firstName"`
	Preferences   *model.PreferencesPatch `json:"preferences"`
	CurrentStreak *int                    `json:"currentStreak"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates an account and logs it in.
//
// HTTP: POST /api/register → 201 user, session cookie set
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:      req.Username,
		Password:      req.Password,
		FirstName:     req.FirstName,
		Preferences:   req.Preferences,
		CurrentStreak: req.CurrentStreak,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.sessions.SetCookie(w, res.Ticket)
	writeJSON(w, http.StatusCreated, newUserResponse(res.User))
}

// HandleLogin checks credentials and sets the session cookie.
//
// HTTP: POST /api/login → 200 user | 400 missing fields | 401 bad credentials
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.sessions.SetCookie(w, res.Ticket)
	writeJSON(w, http.StatusOK, newUserResponse(res.User))
}

// HandleLogout deletes the session server-side and clears the cookie, so a
// copied cookie stops working too.
//
// HTTP: POST /api/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		h.logger.Error("ending session", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if sessionID, ok := auth.SessionIDFromContext(r.Context()); ok {
		h.logger.Info("session ended", slog.String("sessionID", sessionID))
	}
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// HandleMe returns the signed-in user. A session whose user has since been
// deleted gets 404.
//
// HTTP: GET /api/user
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeError(w, apperror.NotFoundMessage("User not found"))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
