package repository

import (
	"context"
	"errors"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository interface {
	// UpsertMovies inserts movies or replaces the stored row with the same id.
	UpsertMovies(ctx context.Context, movies []models.MovieRecord) error
	FindByID(ctx context.Context, id int64) (*models.MovieRecord, error)
	FindByCategory(ctx context.Context, category models.Category) ([]models.MovieRecord, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *database.Tx) MovieRepository
}

type movieRepository struct {
	base
}

func NewMovieRepository(db *database.Database) MovieRepository {
	return &movieRepository{base: newBase(db)}
}

func (r *movieRepository) WithTx(tx *database.Tx) MovieRepository {
	return &movieRepository{base: r.withTx(tx)}
}

func (r *movieRepository) UpsertMovies(ctx context.Context, movies []models.MovieRecord) error {
	if len(movies) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "original_title", "overview", "release_date",
				"poster_path", "backdrop_path", "vote_average", "vote_count",
				"popularity", "adult", "original_language", "updated_at",
			}),
		}).
		Create(&movies).Error
	if err != nil {
		return err
	}
	r.conn.Touch(TableMovies)
	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id int64) (*models.MovieRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movie models.MovieRecord
	err := r.conn.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.MovieRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.MovieRecord
	err := r.conn.WithContext(ctx).
		Model(&models.MovieRecord{}).
		Joins("JOIN movie_categories ON movie_categories.movie_id = movies.id").
		Where("movie_categories.category = ?", category).
		Order("movie_categories.page ASC, movie_categories.position ASC, movies.id ASC").
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	err := r.conn.WithContext(ctx).Model(&models.MovieRecord{}).Count(&total).Error
	return total, err
}
