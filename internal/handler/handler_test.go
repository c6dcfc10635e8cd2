package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/calendar"
	"github.com/sakif/affirmations/internal/handler"
	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository/sqlite"
	"github.com/sakif/affirmations/internal/service"
)

type testEnv struct {
	store        *sqlite.DB
	sessions     *auth.SessionManager
	auth         *handler.AuthHandler
	users        *handler.UserHandler
	affirmations *handler.AffirmationHandler
	moods        *handler.MoodHandler
	favorites    *handler.FavoriteHandler
	affSvc       *service.AffirmationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret")
	require.NoError(t, err)
	sessions := auth.NewSessionManager(store.Sessions(), tokens, auth.SessionConfig{}, logger)

	authSvc := service.NewAuthService(store.Users(), store.Categories(), sessions, auth.NewPasswordServiceForTest(4), logger)
	userSvc := service.NewUserService(store.Users(), store.Categories(), logger)
	affSvc := service.NewAffirmationService(store.Affirmations(), store.Categories(), store.Favorites(), media.Noop{}, logger)
	moodSvc := service.NewMoodService(store.Moods(), calendar.New(time.UTC), logger)
	favSvc := service.NewFavoriteService(store.Favorites(), store.Affirmations(), media.Noop{}, logger)

	return &testEnv{
		store:        store,
		sessions:     sessions,
		auth:         handler.NewAuthHandler(authSvc, userSvc, sessions, logger),
		users:        handler.NewUserHandler(userSvc, logger),
		affirmations: handler.NewAffirmationHandler(affSvc, logger),
		moods:        handler.NewMoodHandler(moodSvc, logger),
		favorites:    handler.NewFavoriteHandler(favSvc, logger),
		affSvc:       affSvc,
	}
}

func (e *testEnv) register(t *testing.T, username string) handler.UserResponse {
	t.Helper()
	body := `{"username":"` + username + `","password":"hunter22","firstName":"Sam"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	e.auth.HandleRegister(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var u handler.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
	return u
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.ContextWithUser(req.Context(), userID))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	t.Run("sets cookie and hides password", func(t *testing.T) {
		body := `{"username":"sam","password":"hunter22","firstName":"Sam","currentStreak":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		env.auth.HandleRegister(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "password")
		assert.Contains(t, rr.Header().Get("Set-Cookie"), auth.CookieName+"=")

		var u handler.UserResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
		assert.Equal(t, "sam", u.Username)
		assert.Equal(t, 2, u.CurrentStreak)
		assert.Equal(t, []string{}, u.Preferences.Categories)
	})

	t.Run("duplicate username is 400", func(t *testing.T) {
		body := `{"username":"sam","password":"other-pass","firstName":"Other"}`
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		env.auth.HandleRegister(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Username already exists", decodeError(t, rr).Message)
	})

	t.Run("missing fields list every problem", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		env.auth.HandleRegister(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		msgs, ok := decodeError(t, rr).Message.([]any)
		require.True(t, ok, "message should be a list")
		assert.Len(t, msgs, 3)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "sam")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"ok", `{"username":"sam","password":"hunter22"}`, http.StatusOK, ""},
		{"missing password", `{"username":"sam"}`, http.StatusBadRequest, "Username and password required"},
		{"wrong password", `{"username":"sam","password":"nope"}`, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown user", `{"username":"ghost","password":"hunter22"}`, http.StatusUnauthorized, "Invalid credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			env.auth.HandleLogin(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rr).Message)
				assert.Empty(t, rr.Header().Get("Set-Cookie"))
			}
		})
	}
}

func TestAuthHandler_MeVanishedUser(t *testing.T) {
	env := newTestEnv(t)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/user", nil), "deleted-user")
	rr := httptest.NewRecorder()
	env.auth.HandleMe(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", decodeError(t, rr).Message)
}

func TestUserHandler_Streak(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "sam")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"number", `{"streak":7}`, http.StatusOK},
		{"string", `{"streak":"7"}`, http.StatusBadRequest},
		{"fraction", `{"streak":1.5}`, http.StatusBadRequest},
		{"missing", `{}`, http.StatusBadRequest},
		{"negative", `{"streak":-3}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest(http.MethodPatch, "/api/user/streak", bytes.NewBufferString(tt.body)), u.ID)
			rr := httptest.NewRecorder()
			env.users.HandleStreak(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestUserHandler_PreferencesRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "sam")

	req := asUser(httptest.NewRequest(http.MethodPatch, "/api/user/preferences",
		bytes.NewBufferString(`{"darkMode":true,"fontSize":12}`)), u.ID)
	rr := httptest.NewRecorder()
	env.users.HandlePreferences(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = asUser(httptest.NewRequest(http.MethodPatch, "/api/user/preferences",
		bytes.NewBufferString(`{"darkMode":true}`)), u.ID)
	rr = httptest.NewRecorder()
	env.users.HandlePreferences(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got handler.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.True(t, got.Preferences.DarkMode)
	assert.Equal(t, model.DefaultNotificationTime, got.Preferences.NotificationTime)
}

func TestAffirmationHandler_DailyAnonymous(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.affirmations.HandleDaily(rr, httptest.NewRequest(http.MethodGet, "/api/affirmations/daily", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got model.DailyAffirmation
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.IsFavorite)
}

func TestAffirmationHandler_ByCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.affSvc.CreateCategory(ctx, "Confidence", "", nil)
	require.NoError(t, err)
	_, err = env.affSvc.Create(ctx, "I am capable", "Confidence", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/affirmations/category/Confidence", nil)
	req.SetPathValue("name", "Confidence")
	rr := httptest.NewRecorder()
	env.affirmations.HandleByCategory(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var list []model.Affirmation
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "I am capable", list[0].Text)
}

func TestMoodHandler_RecordTwice(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "sam")

	post := func() *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/moods", bytes.NewBufferString(`{"mood":"happy"}`)), u.ID)
		rr := httptest.NewRecorder()
		env.moods.HandleRecord(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusCreated, post().Code)

	rr := post()
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, service.MsgMoodAlreadyRecorded, decodeError(t, rr).Message)
}

func TestFavoriteHandler_AddRemove(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "sam")
	ctx := context.Background()
	_, err := env.affSvc.CreateCategory(ctx, "Peace", "", nil)
	require.NoError(t, err)
	aff, err := env.affSvc.Create(ctx, "I am calm", "Peace", nil)
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/favorites",
		bytes.NewBufferString(`{"affirmationId":"`+aff.ID+`"}`)), u.ID)
	rr := httptest.NewRecorder()
	env.favorites.HandleAdd(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var added model.FavoriteWithAffirmation
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&added))
	assert.Equal(t, aff.ID, added.Affirmation.ID)

	for i := 0; i < 2; i++ {
		req = asUser(httptest.NewRequest(http.MethodDelete, "/api/favorites/"+aff.ID, nil), u.ID)
		req.SetPathValue("affirmationId", aff.ID)
		rr = httptest.NewRecorder()
		env.favorites.HandleRemove(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	rr := httptest.NewRecorder()
	handler.NewHealthHandler(fakePinger{}, logger).HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.NewHealthHandler(fakePinger{err: errors.New("down")}, logger).HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
