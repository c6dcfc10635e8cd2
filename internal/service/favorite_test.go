package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
)

func newTestFavoriteService(t *testing.T) (*FavoriteService, *model.Affirmation) {
	t.Helper()
	affs := &fakeAffirmationRepo{}
	aff := &model.Affirmation{Text: "I am calm", Category: "Peace", AudioPath: ptr("audio/calm.mp3")}
	if err := affs.Create(context.Background(), aff); err != nil {
		t.Fatalf("seeding affirmation: %v", err)
	}
	favs := &fakeFavoriteRepo{affirmations: affs}
	return NewFavoriteService(favs, affs, fakeResolver{}, testLogger()), aff
}

func TestFavorites_AddListRemove(t *testing.T) {
	svc, aff := newTestFavoriteService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, "user-1", aff.ID)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.Favorite.ID == "" || added.Affirmation.Text != "I am calm" {
		t.Fatalf("unexpected result: %+v", added)
	}
	if added.Affirmation.AudioURL == "" {
		t.Error("audio URL not resolved")
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Affirmation.ID != aff.ID {
		t.Fatalf("list = %+v", list)
	}

	if err := svc.Remove(ctx, "user-1", aff.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(ctx, "user-1", aff.ID); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	list, err = svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list after remove = %+v", list)
	}
}

func TestFavorites_AddErrors(t *testing.T) {
	svc, aff := newTestFavoriteService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "user-1", " "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("blank id: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Add(ctx, "user-1", "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown affirmation: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Add(ctx, "user-1", aff.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "user-1", aff.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate: err = %v, want ErrConflict", err)
	}
}
