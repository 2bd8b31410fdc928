package repository

import (
	"context"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	// InsertOrIgnore adds membership rows, leaving existing (movie, category)
	// pairs and their original ordering untouched.
	InsertOrIgnore(ctx context.Context, rows []models.MovieCategory) error
	CountByCategory(ctx context.Context, category models.Category) (int64, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *database.Tx) CategoryRepository
}

type categoryRepository struct {
	base
}

func NewCategoryRepository(db *database.Database) CategoryRepository {
	return &categoryRepository{base: newBase(db)}
}

func (r *categoryRepository) WithTx(tx *database.Tx) CategoryRepository {
	return &categoryRepository{base: r.withTx(tx)}
}

func (r *categoryRepository) InsertOrIgnore(ctx context.Context, rows []models.MovieCategory) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return err
	}
	r.conn.Touch(TableMovieCategories)
	return nil
}

func (r *categoryRepository) CountByCategory(ctx context.Context, category models.Category) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	err := r.conn.WithContext(ctx).Model(&models.MovieCategory{}).
		Where("category = ?", category).
		Count(&total).Error
	return total, err
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	err := r.conn.WithContext(ctx).Model(&models.MovieCategory{}).Count(&total).Error
	return total, err
}
