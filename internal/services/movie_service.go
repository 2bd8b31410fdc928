package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/live"
	"movie-catalog/internal/metrics"
	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/tmdb"

	"github.com/sirupsen/logrus"
)

// CatalogClient is the remote catalog the service synchronizes from.
type CatalogClient interface {
	FetchMovies(ctx context.Context, category models.Category, page int) ([]tmdb.Movie, error)
	FetchGenres(ctx context.Context) ([]tmdb.Genre, error)
}

type MovieService interface {
	// Live queries
	StreamCategory(ctx context.Context, category models.Category) *live.Subscription[[]models.Movie]
	StreamMovie(ctx context.Context, id int64) *live.Subscription[models.Movie]
	StreamGenres(ctx context.Context, movieID int64) *live.Subscription[[]models.Genre]

	// Sync operations
	LoadMore(ctx context.Context, category models.Category, paging models.PagingInfo) ([]models.Movie, error)
	RefreshGenres(ctx context.Context) (int, error)

	// Snapshots
	ListCategory(ctx context.Context, category models.Category) ([]models.Movie, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	ListGenres(ctx context.Context, movieID int64) ([]models.Genre, error)
	AllGenres(ctx context.Context) ([]models.Genre, error)
	Stats(ctx context.Context) (*models.CatalogStats, error)
}

type movieService struct {
	db         *database.Database
	movies     repository.MovieRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	client     CatalogClient
	logger     *logrus.Logger
}

func NewMovieService(
	db *database.Database,
	movies repository.MovieRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
	client CatalogClient,
	logger *logrus.Logger,
) MovieService {
	return &movieService{
		db:         db,
		movies:     movies,
		categories: categories,
		genres:     genres,
		client:     client,
		logger:     logger,
	}
}

func (s *movieService) StreamCategory(ctx context.Context, category models.Category) *live.Subscription[[]models.Movie] {
	return live.Watch(ctx, s.db.Tracker(),
		[]string{repository.TableMovies, repository.TableMovieCategories},
		live.Map(func(ctx context.Context) ([]models.MovieRecord, error) {
			return s.movies.FindByCategory(ctx, category)
		}, toMovies))
}

func (s *movieService) StreamMovie(ctx context.Context, id int64) *live.Subscription[models.Movie] {
	return live.Watch(ctx, s.db.Tracker(),
		[]string{repository.TableMovies},
		func(ctx context.Context) (models.Movie, error) {
			movie, err := s.GetMovie(ctx, id)
			if err != nil {
				return models.Movie{}, err
			}
			if movie == nil {
				return models.Movie{}, live.ErrNoValue
			}
			return *movie, nil
		})
}

func (s *movieService) StreamGenres(ctx context.Context, movieID int64) *live.Subscription[[]models.Genre] {
	return live.Watch(ctx, s.db.Tracker(),
		[]string{repository.TableGenres, repository.TableMovieGenres},
		live.Map(func(ctx context.Context) ([]models.GenreRecord, error) {
			return s.genres.FindByMovie(ctx, movieID)
		}, toGenres))
}

// LoadMore fetches one page of a category and merges it into the local store.
// Network failures are returned unchanged and leave the store untouched; the
// end of a listing yields an empty result rather than an error.
func (s *movieService) LoadMore(ctx context.Context, category models.Category, paging models.PagingInfo) ([]models.Movie, error) {
	paging = paging.Normalize()
	start := time.Now()
	log := s.logger.WithFields(logrus.Fields{
		"category": category,
		"page":     paging.Page,
	})

	fetched, err := s.client.FetchMovies(ctx, category, paging.Page)
	if errors.Is(err, tmdb.ErrNoMoreData) {
		log.Debug("Reached end of category listing")
		metrics.ObserveFetch(string(category), metrics.OutcomeNoData, 0, time.Since(start))
		return []models.Movie{}, nil
	}
	if err != nil {
		log.WithError(err).Warn("Failed to fetch movies")
		metrics.ObserveFetch(string(category), metrics.OutcomeError, 0, time.Since(start))
		return nil, err
	}

	if err := s.storePage(ctx, category, paging.Page, fetched); err != nil {
		log.WithError(err).Error("Failed to store fetched movies")
		metrics.ObserveFetch(string(category), metrics.OutcomeError, 0, time.Since(start))
		return nil, fmt.Errorf("failed to store %s page %d: %w", category, paging.Page, err)
	}

	result := make([]models.Movie, 0, len(fetched))
	for _, m := range fetched {
		result = append(result, m.ToMovie())
	}

	metrics.ObserveFetch(string(category), metrics.OutcomeSuccess, len(fetched), time.Since(start))
	log.WithField("movies", len(result)).Info("Loaded movies")

	return result, nil
}

// storePage writes movies, category membership and genre links in a single
// transaction so a failure leaves none of them behind.
func (s *movieService) storePage(ctx context.Context, category models.Category, page int, fetched []tmdb.Movie) error {
	records, memberships, links := buildPageRows(category, page, fetched)

	return s.db.Transaction(ctx, func(tx *database.Tx) error {
		if err := s.movies.WithTx(tx).UpsertMovies(ctx, records); err != nil {
			return fmt.Errorf("upsert movies: %w", err)
		}
		if err := s.categories.WithTx(tx).InsertOrIgnore(ctx, memberships); err != nil {
			return fmt.Errorf("insert category membership: %w", err)
		}
		if err := s.genres.WithTx(tx).InsertMovieGenres(ctx, links); err != nil {
			return fmt.Errorf("insert movie genres: %w", err)
		}
		return nil
	})
}

// buildPageRows maps a fetched page to storage rows. A movie repeated within
// the page keeps its first position and its last field values.
func buildPageRows(category models.Category, page int, fetched []tmdb.Movie) ([]models.MovieRecord, []models.MovieCategory, []models.MovieGenre) {
	records := make([]models.MovieRecord, 0, len(fetched))
	memberships := make([]models.MovieCategory, 0, len(fetched))
	var links []models.MovieGenre

	recordIndex := make(map[int64]int, len(fetched))
	seenLinks := make(map[models.MovieGenre]struct{})

	for position, m := range fetched {
		if i, ok := recordIndex[m.ID]; ok {
			records[i] = m.ToRecord()
		} else {
			recordIndex[m.ID] = len(records)
			records = append(records, m.ToRecord())
			memberships = append(memberships, models.MovieCategory{
				MovieID:  m.ID,
				Category: category,
				Page:     page,
				Position: position,
			})
		}

		for _, genreID := range m.GenreIDs {
			link := models.MovieGenre{MovieID: m.ID, GenreID: genreID}
			if _, ok := seenLinks[link]; ok {
				continue
			}
			seenLinks[link] = struct{}{}
			links = append(links, link)
		}
	}

	return records, memberships, links
}

func (s *movieService) RefreshGenres(ctx context.Context) (int, error) {
	fetched, err := s.client.FetchGenres(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to fetch genres")
		return 0, err
	}

	records := make([]models.GenreRecord, 0, len(fetched))
	for _, g := range fetched {
		records = append(records, g.ToRecord())
	}
	if err := s.genres.UpsertGenres(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store genres: %w", err)
	}

	s.logger.WithField("genres", len(records)).Info("Genres refreshed")
	return len(records), nil
}

func (s *movieService) ListCategory(ctx context.Context, category models.Category) ([]models.Movie, error) {
	records, err := s.movies.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return toMovies(records), nil
}

func (s *movieService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	record, err := s.movies.FindByID(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	movie := record.ToMovie()
	return &movie, nil
}

func (s *movieService) ListGenres(ctx context.Context, movieID int64) ([]models.Genre, error) {
	records, err := s.genres.FindByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return toGenres(records), nil
}

func (s *movieService) AllGenres(ctx context.Context) ([]models.Genre, error) {
	records, err := s.genres.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toGenres(records), nil
}

func (s *movieService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	var stats models.CatalogStats
	var err error

	if stats.Movies, err = s.movies.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Genres, err = s.genres.Count(ctx); err != nil {
		return nil, err
	}
	if stats.MovieGenres, err = s.genres.CountMovieGenres(ctx); err != nil {
		return nil, err
	}
	if stats.MovieCategories, err = s.categories.Count(ctx); err != nil {
		return nil, err
	}

	stats.Categories = make(map[models.Category]int64, len(models.Categories()))
	for _, category := range models.Categories() {
		if stats.Categories[category], err = s.categories.CountByCategory(ctx, category); err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

func toMovies(records []models.MovieRecord) []models.Movie {
	movies := make([]models.Movie, 0, len(records))
	for _, r := range records {
		movies = append(movies, r.ToMovie())
	}
	return movies
}

func toGenres(records []models.GenreRecord) []models.Genre {
	genres := make([]models.Genre, 0, len(records))
	for _, r := range records {
		genres = append(genres, r.ToGenre())
	}
	return genres
}
