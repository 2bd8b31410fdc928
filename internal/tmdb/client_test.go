package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/sirupsen/logrus/hooks/test"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, _ := test.NewNullLogger()
	client, err := NewClient(&config.TMDBConfig{
		APIKey:      "secret",
		BaseURL:     server.URL + "/3/",
		Language:    "en-US",
		HTTPTimeout: 2 * time.Second,
	}, logger)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestFetchMoviesDecodesResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/movie/top_rated" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("api_key") != "secret" || q.Get("language") != "en-US" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":2,"total_pages":5,"total_results":100,"results":[
			{"id":1,"title":"One","genre_ids":[28,12],"vote_average":7.5,"release_date":"2024-01-02"},
			{"id":2,"title":"Two","genre_ids":[28]}
		]}`))
	})

	movies, err := client.FetchMovies(context.Background(), models.CategoryTopRated, 2)
	if err != nil {
		t.Fatalf("FetchMovies failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].ID != 1 || movies[0].Title != "One" || len(movies[0].GenreIDs) != 2 || movies[0].VoteAverage != 7.5 {
		t.Errorf("unexpected first movie %#v", movies[0])
	}
	if movies[1].GenreIDs[0] != 28 {
		t.Errorf("unexpected genre ids %v", movies[1].GenreIDs)
	}
}

func TestFetchMoviesCategoryEndpoints(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"page":1,"total_pages":1,"results":[]}`))
	})

	tests := []struct {
		category models.Category
		path     string
	}{
		{models.CategoryNowPlaying, "/3/movie/now_playing"},
		{models.CategoryPopular, "/3/movie/popular"},
		{models.CategoryTopRated, "/3/movie/top_rated"},
		{models.CategoryUpcoming, "/3/movie/upcoming"},
	}
	for _, tt := range tests {
		if _, err := client.FetchMovies(context.Background(), tt.category, 1); err != nil {
			t.Fatalf("%s: unexpected error %v", tt.category, err)
		}
		if gotPath != tt.path {
			t.Errorf("%s: expected path %s, got %s", tt.category, tt.path, gotPath)
		}
	}
}

func TestFetchMoviesServerErrorIsWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	})

	_, err := client.FetchMovies(context.Background(), models.CategoryPopular, 1)
	var tmdbErr *Error
	if !errors.As(err, &tmdbErr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if tmdbErr.StatusCode != http.StatusUnauthorized || tmdbErr.Category != models.CategoryPopular || tmdbErr.Page != 1 {
		t.Errorf("unexpected error fields %#v", tmdbErr)
	}
	if errors.Is(err, ErrNoMoreData) {
		t.Error("auth failure must not look like end of data")
	}
}

func TestFetchMoviesDecodeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	})

	_, err := client.FetchMovies(context.Background(), models.CategoryUpcoming, 1)
	var tmdbErr *Error
	if !errors.As(err, &tmdbErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if tmdbErr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestFetchMoviesTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	logger, _ := test.NewNullLogger()
	client, err := NewClient(&config.TMDBConfig{BaseURL: url, HTTPTimeout: time.Second}, logger)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.FetchMovies(context.Background(), models.CategoryPopular, 1)
	var tmdbErr *Error
	if !errors.As(err, &tmdbErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if tmdbErr.StatusCode != 0 {
		t.Errorf("transport failure should carry no status, got %d", tmdbErr.StatusCode)
	}
}

func TestFetchMoviesNoMoreData(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		page   int
	}{
		{"past total pages", http.StatusOK, `{"page":9,"total_pages":3,"results":[]}`, 9},
		{"invalid page status", http.StatusBadRequest, `{"status_code":22,"status_message":"Invalid page: Pages start at 1 and max at 500."}`, 501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := client.FetchMovies(context.Background(), models.CategoryPopular, tt.page)
			if !errors.Is(err, ErrNoMoreData) {
				t.Fatalf("expected ErrNoMoreData, got %v", err)
			}
		})
	}
}

func TestFetchGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/genre/movie/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":12,"name":"Adventure"}]}`))
	})

	genres, err := client.FetchGenres(context.Background())
	if err != nil {
		t.Fatalf("FetchGenres failed: %v", err)
	}
	if len(genres) != 2 || genres[1].Name != "Adventure" {
		t.Fatalf("unexpected genres %#v", genres)
	}
}

func TestFetchMoviesRejectsUnknownCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.FetchMovies(context.Background(), models.Category("latest"), 1)
	var tmdbErr *Error
	if !errors.As(err, &tmdbErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
}
