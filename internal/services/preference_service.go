package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-catalog/internal/database"
	"movie-catalog/internal/live"
	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// ErrInvalidPreference marks a Set rejected before anything was written.
var ErrInvalidPreference = errors.New("invalid preference")

type PreferenceService interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under the trimmed key and returns what was stored.
	Set(ctx context.Context, key, value string) (*models.Preference, error)
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
	Stream(ctx context.Context) *live.Subscription[map[string]string]
}

type preferenceService struct {
	db     *database.Database
	repo   repository.PreferenceRepository
	logger *logrus.Logger
}

func NewPreferenceService(db *database.Database, repo repository.PreferenceRepository, logger *logrus.Logger) PreferenceService {
	return &preferenceService{db: db, repo: repo, logger: logger}
}

func (s *preferenceService) Get(ctx context.Context, key string) (string, bool, error) {
	pref, err := s.repo.Get(ctx, key)
	if err != nil || pref == nil {
		return "", false, err
	}
	return pref.Value, true, nil
}

func (s *preferenceService) Set(ctx context.Context, key, value string) (*models.Preference, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidPreference)
	}
	if key == models.PreferenceCategory {
		category, err := models.ParseCategory(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPreference, err)
		}
		value = string(category)
	}

	if err := s.repo.Set(ctx, key, value); err != nil {
		return nil, fmt.Errorf("failed to store preference %q: %w", key, err)
	}
	s.logger.WithField("key", key).Debug("Preference updated")
	return &models.Preference{Key: key, Value: value}, nil
}

func (s *preferenceService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *preferenceService) All(ctx context.Context) (map[string]string, error) {
	prefs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func (s *preferenceService) Stream(ctx context.Context) *live.Subscription[map[string]string] {
	return live.Watch(ctx, s.db.Tracker(), []string{repository.TablePreferences}, s.All)
}
