package repository

import (
	"context"
	"errors"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository interface {
	Get(ctx context.Context, key string) (*models.Preference, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	FindAll(ctx context.Context) ([]models.Preference, error)
}

type preferenceRepository struct {
	base
}

func NewPreferenceRepository(db *database.Database) PreferenceRepository {
	return &preferenceRepository{base: newBase(db)}
}

func (r *preferenceRepository) Get(ctx context.Context, key string) (*models.Preference, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var pref models.Preference
	err := r.conn.WithContext(ctx).Where("key = ?", key).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&models.Preference{Key: key, Value: value}).Error
	if err != nil {
		return err
	}
	r.conn.Touch(TablePreferences)
	return nil
}

func (r *preferenceRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.conn.WithContext(ctx).Where("key = ?", key).Delete(&models.Preference{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.conn.Touch(TablePreferences)
	}
	return nil
}

func (r *preferenceRepository) FindAll(ctx context.Context) ([]models.Preference, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var prefs []models.Preference
	err := r.conn.WithContext(ctx).Order("key ASC").Find(&prefs).Error
	return prefs, err
}
