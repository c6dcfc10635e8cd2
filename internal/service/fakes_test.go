package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================
//
// In-memory implementations of the repository interfaces. Each fake keeps
// to the contract documented in package repository (NotFound, Conflict)
// and has error fields for simulating a failing database.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.ConflictMessage("Username already exists")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) UpdateStreak(_ context.Context, id string, streak int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	u.CurrentStreak = streak
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePreferences(_ context.Context, id string, prefs model.Preferences) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	u.Preferences = prefs
	copied := *u
	return &copied, nil
}

type fakeCategoryRepo struct {
	byName  map[string]model.Category
	listErr error
}

var _ repository.CategoryRepository = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	f := &fakeCategoryRepo{byName: map[string]model.Category{}}
	for _, n := range names {
		f.byName[n] = model.Category{ID: "cat-" + n, Name: n}
	}
	return f
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if _, ok := f.byName[c.Name]; ok {
		return apperror.Conflict("category", c.Name)
	}
	c.ID = "cat-" + c.Name
	f.byName[c.Name] = *c
	return nil
}

func (f *fakeCategoryRepo) List(context.Context) ([]model.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Category{}
	for _, c := range f.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	c, ok := f.byName[name]
	if !ok {
		return nil, apperror.NotFound("category", name)
	}
	return &c, nil
}

func (f *fakeCategoryRepo) RefreshCounts(context.Context) error { return nil }

type fakeAffirmationRepo struct {
	rows     []model.Affirmation
	dailyErr error
}

var _ repository.AffirmationRepository = (*fakeAffirmationRepo)(nil)

func (f *fakeAffirmationRepo) Create(_ context.Context, a *model.Affirmation) error {
	a.ID = fmt.Sprintf("aff-%d", len(f.rows)+1)
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAffirmationRepo) GetByID(_ context.Context, id string) (*model.Affirmation, error) {
	for _, a := range f.rows {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, apperror.NotFound("affirmation", id)
}

func (f *fakeAffirmationRepo) List(context.Context) ([]model.Affirmation, error) {
	return append([]model.Affirmation{}, f.rows...), nil
}

func (f *fakeAffirmationRepo) ListByCategory(_ context.Context, category string) ([]model.Affirmation, error) {
	out := []model.Affirmation{}
	for _, a := range f.rows {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

// Daily always returns the first row, creating the default when empty.
func (f *fakeAffirmationRepo) Daily(ctx context.Context) (*model.Affirmation, error) {
	if f.dailyErr != nil {
		return nil, f.dailyErr
	}
	if len(f.rows) == 0 {
		_ = f.Create(ctx, &model.Affirmation{
			Text:     repository.DefaultAffirmationText,
			Category: repository.DefaultAffirmationCategory,
		})
	}
	a := f.rows[0]
	return &a, nil
}

func (f *fakeAffirmationRepo) Count(context.Context) (int, error) { return len(f.rows), nil }

type fakeMoodRepo struct {
	rows      []model.Mood
	createErr error
}

var _ repository.MoodRepository = (*fakeMoodRepo)(nil)

func (f *fakeMoodRepo) Create(_ context.Context, m *model.Mood) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.rows {
		if r.UserID == m.UserID && r.Day == m.Day {
			return apperror.ConflictMessage("duplicate mood")
		}
	}
	m.ID = fmt.Sprintf("mood-%d", len(f.rows)+1)
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMoodRepo) ListByUser(_ context.Context, userID string) ([]model.Mood, error) {
	out := []model.Mood{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeMoodRepo) GetByDay(_ context.Context, userID, day string) (*model.Mood, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.Day == day {
			return &r, nil
		}
	}
	return nil, apperror.NotFoundMessage("no mood")
}

type fakeFavoriteRepo struct {
	affirmations *fakeAffirmationRepo
	rows         []model.Favorite
	existsCalls  int
}

var _ repository.FavoriteRepository = (*fakeFavoriteRepo)(nil)

func (f *fakeFavoriteRepo) Add(_ context.Context, fav *model.Favorite) error {
	for _, r := range f.rows {
		if r.UserID == fav.UserID && r.AffirmationID == fav.AffirmationID {
			return apperror.ConflictMessage("Affirmation is already a favorite")
		}
	}
	fav.ID = fmt.Sprintf("fav-%d", len(f.rows)+1)
	fav.CreatedAt = time.Now()
	f.rows = append(f.rows, *fav)
	return nil
}

func (f *fakeFavoriteRepo) Remove(_ context.Context, userID, affirmationID string) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.UserID != userID || r.AffirmationID != affirmationID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeFavoriteRepo) Exists(_ context.Context, userID, affirmationID string) (bool, error) {
	f.existsCalls++
	for _, r := range f.rows {
		if r.UserID == userID && r.AffirmationID == affirmationID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithAffirmation, error) {
	out := []model.FavoriteWithAffirmation{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		r := f.rows[i]
		if r.UserID != userID {
			continue
		}
		a, err := f.affirmations.GetByID(ctx, r.AffirmationID)
		if err != nil {
			continue
		}
		out = append(out, model.FavoriteWithAffirmation{Favorite: r, Affirmation: *a})
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]model.Session
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]model.Session{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeSessionRepo) Get(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	return &s, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.rows {
		if s.Expired(now) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func newTestSessionManager(t *testing.T, repo *fakeSessionRepo) *auth.SessionManager {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return auth.NewSessionManager(repo, tokens, auth.SessionConfig{}, testLogger())
}

// fakeResolver maps every path to a fixed CDN prefix, or fails when err is set.
type fakeResolver struct {
	err error
}

func (r fakeResolver) Resolve(_ context.Context, path string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "https://cdn.test/" + path, nil
}

func ptr[T any](v T) *T { return &v }
