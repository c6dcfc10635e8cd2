package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// AuthService registers users and starts and ends their sessions.
type AuthService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	sessions   *auth.SessionManager
	passwords  *auth.PasswordService
	logger     *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	categories repository.CategoryRepository,
	sessions *auth.SessionManager,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		categories: categories,
		sessions:   sessions,
		passwords:  passwords,
		logger:     logger,
	}
}

// RegisterInput is a registration request. Preferences and CurrentStreak are
// optional; omitted values take the account defaults.
type RegisterInput struct {
	Username      string
	Password      string
	FirstName     string
	Preferences   *model.PreferencesPatch
	CurrentStreak *int
}

// AuthResult is a user together with the session just started for them.
type AuthResult struct {
	User   *model.User
	Ticket *auth.Ticket
}

// Register validates in, creates the account and logs it in.
//
// Every invalid field is reported in one apperror.Invalid error. A taken
// username surfaces as the store's ErrConflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	firstName := strings.TrimSpace(in.FirstName)

	var errs []apperror.FieldError
	switch {
	case username == "":
		errs = append(errs, apperror.FieldError{Field: "username", Message: "username is required"})
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		errs = append(errs, apperror.FieldError{Field: "username",
			Message: fmt.Sprintf("username must be %d characters or less", MaxUsernameLength)})
	}
	switch {
	case in.Password == "":
		errs = append(errs, apperror.FieldError{Field: "password", Message: "password is required"})
	case len(in.Password) > auth.MaxPasswordBytes:
		errs = append(errs, apperror.FieldError{Field: "password",
			Message: fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordBytes)})
	}
	switch {
	case firstName == "":
		errs = append(errs, apperror.FieldError{Field: "firstName", Message: "firstName is required"})
	case utf8.RuneCountInString(firstName) > MaxFirstNameLength:
		errs = append(errs, apperror.FieldError{Field: "firstName",
			Message: fmt.Sprintf("firstName must be %d characters or less", MaxFirstNameLength)})
	}

	streak := 0
	if in.CurrentStreak != nil {
		if *in.CurrentStreak < 0 {
			errs = append(errs, apperror.FieldError{Field: "currentStreak", Message: "currentStreak must not be negative"})
		} else {
			streak = *in.CurrentStreak
		}
	}

	prefs := model.DefaultPreferences()
	if in.Preferences != nil {
		normalized, err := normalizePreferences(ctx, s.categories, prefs.Apply(*in.Preferences))
		if err != nil {
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Details == nil {
				return nil, err
			}
			errs = append(errs, appErr.Details...)
		}
		prefs = normalized
	}

	if err := apperror.Invalid(errs); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("registering %q: %w", username, err)
	}

	user := &model.User{
		Username:      username,
		PasswordHash:  hash,
		FirstName:     firstName,
		Preferences:   prefs,
		CurrentStreak: streak,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	ticket, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return &AuthResult{User: user, Ticket: ticket}, nil
}

// Login checks the credentials and starts a session. Unknown usernames and
// wrong passwords get the same error and take the same time.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "Username and password required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		_ = s.passwords.VerifyMissing(password)
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("failed login", slog.String("username", username))
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	ticket, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return &AuthResult{User: user, Ticket: ticket}, nil
}

// Logout ends the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.End(ctx, token)
}
