package routes

import (
	"movie-catalog/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, movieHandler *handlers.MovieHandler, preferenceHandler *handlers.PreferenceHandler) {
	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Category routes - listings, paging and live streams
	categories := v1.Group("/categories")
	{
		categories.Get("/", movieHandler.GetCategories)
		categories.Get("/:category/movies", movieHandler.GetCategoryMovies)
		categories.Get("/:category/movies/stream", movieHandler.StreamCategoryMovies)
		categories.Post("/:category/load", movieHandler.LoadMore)
	}

	// Movie routes - details and genres
	movies := v1.Group("/movies")
	{
		movies.Get("/:id", movieHandler.GetMovieByID)
		movies.Get("/:id/stream", movieHandler.StreamMovie)
		movies.Get("/:id/genres", movieHandler.GetMovieGenres)
		movies.Get("/:id/genres/stream", movieHandler.StreamMovieGenres)
	}

	// Genre routes - TMDB reference data
	genres := v1.Group("/genres")
	{
		genres.Post("/refresh", movieHandler.RefreshGenres)
	}

	v1.Get("/stats", movieHandler.GetStats)

	preferences := v1.Group("/preferences")
	{
		preferences.Get("/", preferenceHandler.GetPreferences)
		preferences.Get("/stream", preferenceHandler.StreamPreferences)
		preferences.Get("/:key", preferenceHandler.GetPreference)
		preferences.Put("/:key", preferenceHandler.SetPreference)
		preferences.Delete("/:key", preferenceHandler.DeletePreference)
	}
}
