package handlers

import (
	"context"
	"strconv"
	"time"

	"movie-catalog/internal/live"
	"movie-catalog/internal/models"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MovieHandler struct {
	service   services.MovieService
	logger    *logrus.Logger
	heartbeat time.Duration
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger, heartbeat time.Duration) *MovieHandler {
	return &MovieHandler{
		service:   service,
		logger:    logger,
		heartbeat: heartbeat,
	}
}

// GetCategories godoc
// @Summary List categories
// @Description Get the movie listings that can be loaded and streamed
// @Tags categories
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]CategoryResponse} "Categories"
// @Router /categories [get]
func (h *MovieHandler) GetCategories(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, "Categories retrieved successfully", newCategoryResponses(models.Categories()))
}

// GetCategoryMovies godoc
// @Summary Get category movies
// @Description Get the locally stored movies of a category in listing order
// @Tags categories
// @Produce json
// @Param category path string true "Category (now_playing, popular, top_rated, upcoming)"
// @Success 200 {object} utils.StandardResponse{data=[]models.Movie} "Movies"
// @Failure 400 {object} utils.StandardResponse "Invalid category"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /categories/{category}/movies [get]
func (h *MovieHandler) GetCategoryMovies(c *fiber.Ctx) error {
	category, err := models.ParseCategory(c.Params("category"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category")
	}

	movies, err := h.service.ListCategory(c.Context(), category)
	if err != nil {
		return failure(c, h.logger.WithField("category", category), err, "Failed to retrieve movies")
	}

	meta := utils.ListMeta{Category: string(category), Total: len(movies)}
	return utils.SuccessWithMetaResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies, meta)
}

// StreamCategoryMovies godoc
// @Summary Stream category movies
// @Description Server-Sent Events stream emitting the category listing now and after every change
// @Tags categories
// @Produce text/event-stream
// @Param category path string true "Category (now_playing, popular, top_rated, upcoming)"
// @Success 200 {array} models.Movie "event: movies"
// @Failure 400 {object} utils.StandardResponse "Invalid category"
// @Router /categories/{category}/movies/stream [get]
func (h *MovieHandler) StreamCategoryMovies(c *fiber.Ctx) error {
	category, err := models.ParseCategory(c.Params("category"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category")
	}

	return streamEvents(c, h.logger, h.heartbeat, "movies", func(ctx context.Context) *live.Subscription[[]models.Movie] {
		return h.service.StreamCategory(ctx, category)
	})
}

// LoadMore godoc
// @Summary Load a category page
// @Description Fetch one page of a category from TMDB and merge it into the local store. A page past the end returns an empty list.
// @Tags categories
// @Produce json
// @Param category path string true "Category (now_playing, popular, top_rated, upcoming)"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} utils.StandardResponse{data=LoadMoreResponse} "Loaded movies"
// @Failure 400 {object} utils.StandardResponse "Invalid category or page"
// @Failure 502 {object} utils.StandardResponse "TMDB request failed"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /categories/{category}/load [post]
func (h *MovieHandler) LoadMore(c *fiber.Ctx) error {
	category, err := models.ParseCategory(c.Params("category"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category")
	}
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid page")
	}

	paging := models.PagingInfo{Page: page}.Normalize()
	movies, err := h.service.LoadMore(c.Context(), category, paging)
	if err != nil {
		log := h.logger.WithFields(logrus.Fields{"category": category, "page": paging.Page})
		return failure(c, log, err, "Failed to load movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movies loaded successfully", LoadMoreResponse{
		Category: category,
		Page:     paging.Page,
		Count:    len(movies),
		Movies:   movies,
	})
}

// GetMovieByID godoc
// @Summary Get movie by ID
// @Description Get a single stored movie by its TMDB id
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.StandardResponse{data=models.Movie} "Movie details"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	movie, err := h.service.GetMovie(c.Context(), id)
	if err != nil {
		return failure(c, h.logger.WithField("id", id), err, "Failed to retrieve movie")
	}
	if movie == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", movie)
}

// StreamMovie godoc
// @Summary Stream a movie
// @Description Server-Sent Events stream emitting the movie once it is stored and after every change
// @Tags movies
// @Produce text/event-stream
// @Param id path int true "Movie ID"
// @Success 200 {object} models.Movie "event: movie"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Router /movies/{id}/stream [get]
func (h *MovieHandler) StreamMovie(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	return streamEvents(c, h.logger, h.heartbeat, "movie", func(ctx context.Context) *live.Subscription[models.Movie] {
		return h.service.StreamMovie(ctx, id)
	})
}

// GetMovieGenres godoc
// @Summary Get movie genres
// @Description Get the genres linked to a movie, ordered by name
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} utils.StandardResponse{data=[]models.Genre} "Genres"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Router /movies/{id}/genres [get]
func (h *MovieHandler) GetMovieGenres(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	genres, err := h.service.ListGenres(c.Context(), id)
	if err != nil {
		return failure(c, h.logger.WithField("id", id), err, "Failed to retrieve genres")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", genres)
}

// StreamMovieGenres godoc
// @Summary Stream movie genres
// @Description Server-Sent Events stream emitting the genres of a movie now and after every change
// @Tags movies
// @Produce text/event-stream
// @Param id path int true "Movie ID"
// @Success 200 {array} models.Genre "event: genres"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Router /movies/{id}/genres/stream [get]
func (h *MovieHandler) StreamMovieGenres(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	return streamEvents(c, h.logger, h.heartbeat, "genres", func(ctx context.Context) *live.Subscription[[]models.Genre] {
		return h.service.StreamGenres(ctx, id)
	})
}

// RefreshGenres godoc
// @Summary Refresh genres
// @Description Fetch the TMDB genre list and update the stored genres
// @Tags genres
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=RefreshGenresResponse} "Genres refreshed"
// @Failure 502 {object} utils.StandardResponse "TMDB request failed"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /genres/refresh [post]
func (h *MovieHandler) RefreshGenres(c *fiber.Ctx) error {
	n, err := h.service.RefreshGenres(c.Context())
	if err != nil {
		return failure(c, h.logger, err, "Failed to refresh genres")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genres refreshed successfully", RefreshGenresResponse{Genres: n})
}

// GetStats godoc
// @Summary Catalog statistics
// @Description Get row counts of the local catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=models.CatalogStats} "Statistics"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /stats [get]
func (h *MovieHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return failure(c, h.logger, err, "Failed to retrieve catalog statistics")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Catalog statistics retrieved successfully", stats)
}
