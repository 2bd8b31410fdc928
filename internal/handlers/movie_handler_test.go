package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/live"
	"movie-catalog/internal/models"
	"movie-catalog/internal/services"
	"movie-catalog/internal/testsupport"
	"movie-catalog/internal/tmdb"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type stubMovieService struct {
	services.MovieService

	loadMore   func(ctx context.Context, category models.Category, paging models.PagingInfo) ([]models.Movie, error)
	getMovie   func(ctx context.Context, id int64) (*models.Movie, error)
	listMovies func(ctx context.Context, category models.Category) ([]models.Movie, error)
}

func (s *stubMovieService) LoadMore(ctx context.Context, category models.Category, paging models.PagingInfo) ([]models.Movie, error) {
	return s.loadMore(ctx, category, paging)
}

func (s *stubMovieService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	return s.getMovie(ctx, id)
}

func (s *stubMovieService) ListCategory(ctx context.Context, category models.Category) ([]models.Movie, error) {
	return s.listMovies(ctx, category)
}

func newTestApp(t *testing.T, svc services.MovieService) *fiber.App {
	t.Helper()
	logger, _ := testsupport.NewLogger(t)
	app := fiber.New()
	h := NewMovieHandler(svc, logger, time.Second)

	v1 := app.Group("/api/v1")
	v1.Get("/categories", h.GetCategories)
	v1.Get("/categories/:category/movies", h.GetCategoryMovies)
	v1.Post("/categories/:category/load", h.LoadMore)
	v1.Get("/movies/:id", h.GetMovieByID)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (int, utils.StandardResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out utils.StandardResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid response body %s: %v", body, err)
	}
	return resp.StatusCode, out
}

func TestLoadMoreHandler(t *testing.T) {
	var gotCategory models.Category
	var gotPage int
	svc := &stubMovieService{
		loadMore: func(_ context.Context, category models.Category, paging models.PagingInfo) ([]models.Movie, error) {
			gotCategory, gotPage = category, paging.Page
			return []models.Movie{{ID: 1, Title: "A"}}, nil
		},
	}
	app := newTestApp(t, svc)

	code, resp := doRequest(t, app, fiber.MethodPost, "/api/v1/categories/top-rated/load?page=3")
	if code != fiber.StatusOK || resp.Status != utils.StatusSuccess {
		t.Fatalf("unexpected response %d %#v", code, resp)
	}
	if gotCategory != models.CategoryTopRated || gotPage != 3 {
		t.Fatalf("service called with %s page %d", gotCategory, gotPage)
	}
	data, _ := resp.Data.(map[string]any)
	if data["count"] != float64(1) {
		t.Fatalf("unexpected data %#v", resp.Data)
	}
}

func TestLoadMoreHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{"unknown category", "/api/v1/categories/latest/load", nil, fiber.StatusBadRequest},
		{"bad page", "/api/v1/categories/popular/load?page=x", nil, fiber.StatusBadRequest},
		{"upstream failure", "/api/v1/categories/popular/load", &tmdb.Error{Op: "fetch movies", Err: errors.New("timeout")}, fiber.StatusBadGateway},
		{"store failure", "/api/v1/categories/popular/load", errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubMovieService{
				loadMore: func(context.Context, models.Category, models.PagingInfo) ([]models.Movie, error) {
					return nil, tt.err
				},
			}
			code, resp := doRequest(t, newTestApp(t, svc), fiber.MethodPost, tt.target)
			if code != tt.code || resp.Code != tt.code {
				t.Fatalf("expected %d, got %d %#v", tt.code, code, resp)
			}
		})
	}
}

func TestGetMovieByIDHandler(t *testing.T) {
	svc := &stubMovieService{
		getMovie: func(_ context.Context, id int64) (*models.Movie, error) {
			if id == 7 {
				return &models.Movie{ID: 7, Title: "Seven"}, nil
			}
			return nil, nil
		},
	}
	app := newTestApp(t, svc)

	if code, _ := doRequest(t, app, fiber.MethodGet, "/api/v1/movies/7"); code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code, resp := doRequest(t, app, fiber.MethodGet, "/api/v1/movies/8"); code != fiber.StatusNotFound || resp.Status != utils.StatusError {
		t.Fatalf("expected 404 error, got %d %#v", code, resp)
	}
	if code, _ := doRequest(t, app, fiber.MethodGet, "/api/v1/movies/abc"); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestGetCategoryMoviesHandler(t *testing.T) {
	svc := &stubMovieService{
		listMovies: func(context.Context, models.Category) ([]models.Movie, error) {
			return []models.Movie{{ID: 1}, {ID: 2}}, nil
		},
	}
	code, resp := doRequest(t, newTestApp(t, svc), fiber.MethodGet, "/api/v1/categories/now_playing/movies")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	meta, _ := resp.Meta.(map[string]any)
	if meta["category"] != "now_playing" || meta["total"] != float64(2) {
		t.Fatalf("unexpected meta %#v", resp.Meta)
	}
}

func TestGetCategoriesHandler(t *testing.T) {
	code, resp := doRequest(t, newTestApp(t, &stubMovieService{}), fiber.MethodGet, "/api/v1/categories")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	list, _ := resp.Data.([]any)
	if len(list) != 4 {
		t.Fatalf("expected 4 categories, got %#v", resp.Data)
	}
	first, _ := list[0].(map[string]any)
	if first["value"] != "now_playing" || first["label"] != "Now Playing" {
		t.Fatalf("unexpected first category %#v", first)
	}
}

func TestWriteEventsStopsOnQueryFailure(t *testing.T) {
	tracker := live.NewTracker()
	calls := 0
	sub := live.Watch(context.Background(), tracker, []string{"movies"}, func(context.Context) ([]int, error) {
		calls++
		if calls == 1 {
			return []int{1, 2}, nil
		}
		return nil, errors.New("database closed")
	})
	defer sub.Close()
	tracker.Notify("movies")

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := writeEvents(w, sub, time.Minute, "movies", json.Marshal); err != nil {
		t.Fatalf("writeEvents failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "id: 1\nevent: movies\ndata: [1,2]\n\n") {
		t.Fatalf("missing data event in %q", out)
	}
	if !strings.Contains(out, "event: error\ndata: \"database closed\"\n\n") {
		t.Fatalf("missing error event in %q", out)
	}
}
