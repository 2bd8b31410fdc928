package services

import (
	"context"
	"errors"
	"testing"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/testsupport"
)

func newTestPreferenceService(t *testing.T) PreferenceService {
	t.Helper()
	db := testsupport.MustOpenDatabase(t)
	logger, _ := testsupport.NewLogger(t)
	return NewPreferenceService(db, repository.NewPreferenceRepository(db), logger)
}

func TestPreferenceSetAndGet(t *testing.T) {
	svc := newTestPreferenceService(t)
	ctx := context.Background()

	if _, ok, err := svc.Get(ctx, models.PreferenceLanguage); err != nil || ok {
		t.Fatalf("expected missing preference, got ok=%v err=%v", ok, err)
	}
	if _, err := svc.Set(ctx, models.PreferenceLanguage, "de-DE"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := svc.Get(ctx, models.PreferenceLanguage)
	if err != nil || !ok || value != "de-DE" {
		t.Fatalf("unexpected Get result %q %v %v", value, ok, err)
	}
}

func TestPreferenceCategoryIsNormalized(t *testing.T) {
	svc := newTestPreferenceService(t)
	ctx := context.Background()

	if _, err := svc.Set(ctx, models.PreferenceCategory, "top-rated"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _, _ := svc.Get(ctx, models.PreferenceCategory)
	if value != string(models.CategoryTopRated) {
		t.Fatalf("expected %q, got %q", models.CategoryTopRated, value)
	}

	if _, err := svc.Set(ctx, models.PreferenceCategory, "latest"); !errors.Is(err, ErrInvalidPreference) {
		t.Fatalf("expected unknown category to be rejected, got %v", err)
	}
}

func TestPreferenceRejectsEmptyKey(t *testing.T) {
	svc := newTestPreferenceService(t)
	if _, err := svc.Set(context.Background(), "  ", "x"); !errors.Is(err, ErrInvalidPreference) {
		t.Fatalf("expected invalid preference error for empty key, got %v", err)
	}
}

func TestPreferenceSetTrimsKey(t *testing.T) {
	svc := newTestPreferenceService(t)
	ctx := context.Background()

	pref, err := svc.Set(ctx, "  "+models.PreferenceLanguage+" ", "fr-FR")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if pref.Key != models.PreferenceLanguage || pref.Value != "fr-FR" {
		t.Fatalf("unexpected stored preference %#v", pref)
	}
	value, ok, err := svc.Get(ctx, models.PreferenceLanguage)
	if err != nil || !ok || value != "fr-FR" {
		t.Fatalf("unexpected Get result %q %v %v", value, ok, err)
	}
}

func TestPreferenceStreamFollowsChanges(t *testing.T) {
	svc := newTestPreferenceService(t)
	ctx := context.Background()

	sub := svc.Stream(ctx)
	defer sub.Close()
	if initial := receive(t, sub); len(initial) != 0 {
		t.Fatalf("expected no preferences, got %v", initial)
	}

	if _, err := svc.Set(ctx, models.PreferenceLanguage, "fr-FR"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if prefs := receive(t, sub); prefs[models.PreferenceLanguage] != "fr-FR" {
		t.Fatalf("unexpected preferences %v", prefs)
	}

	if err := svc.Delete(ctx, models.PreferenceLanguage); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if prefs := receive(t, sub); len(prefs) != 0 {
		t.Fatalf("expected empty preferences after delete, got %v", prefs)
	}

	if err := svc.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
	expectSilence(t, sub)
}
