package repository

import (
	"context"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm/clause"
)

type GenreRepository interface {
	UpsertGenres(ctx context.Context, genres []models.GenreRecord) error
	FindAll(ctx context.Context) ([]models.GenreRecord, error)
	// InsertMovieGenres adds cross-references, ignoring pairs already stored.
	InsertMovieGenres(ctx context.Context, links []models.MovieGenre) error
	FindByMovie(ctx context.Context, movieID int64) ([]models.GenreRecord, error)
	Count(ctx context.Context) (int64, error)
	CountMovieGenres(ctx context.Context) (int64, error)
	WithTx(tx *database.Tx) GenreRepository
}

type genreRepository struct {
	base
}

func NewGenreRepository(db *database.Database) GenreRepository {
	return &genreRepository{base: newBase(db)}
}

func (r *genreRepository) WithTx(tx *database.Tx) GenreRepository {
	return &genreRepository{base: r.withTx(tx)}
}

func (r *genreRepository) UpsertGenres(ctx context.Context, genres []models.GenreRecord) error {
	if len(genres) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(&genres).Error
	if err != nil {
		return err
	}
	r.conn.Touch(TableGenres)
	return nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]models.GenreRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genres []models.GenreRecord
	err := r.conn.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

func (r *genreRepository) InsertMovieGenres(ctx context.Context, links []models.MovieGenre) error {
	if len(links) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
	if err != nil {
		return err
	}
	r.conn.Touch(TableMovieGenres)
	return nil
}

func (r *genreRepository) FindByMovie(ctx context.Context, movieID int64) ([]models.GenreRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genres []models.GenreRecord
	err := r.conn.WithContext(ctx).
		Model(&models.GenreRecord{}).
		Joins("JOIN movie_genres ON movie_genres.genre_id = genres.id").
		Where("movie_genres.movie_id = ?", movieID).
		Order("genres.name ASC").
		Find(&genres).Error
	return genres, err
}

func (r *genreRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	err := r.conn.WithContext(ctx).Model(&models.GenreRecord{}).Count(&total).Error
	return total, err
}

func (r *genreRepository) CountMovieGenres(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	err := r.conn.WithContext(ctx).Model(&models.MovieGenre{}).Count(&total).Error
	return total, err
}
