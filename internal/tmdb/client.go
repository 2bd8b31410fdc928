package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/sirupsen/logrus"
)

// statusInvalidPage is the TMDB status_code returned for pages outside 1..500.
const statusInvalidPage = 22

// ErrNoMoreData signals that the requested page lies past the end of the listing.
var ErrNoMoreData = errors.New("tmdb: no more data")

// Error wraps every failed TMDB call: transport errors, unexpected statuses
// and undecodable bodies.
type Error struct {
	Op         string
	Category   models.Category
	Page       int
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tmdb ")
	b.WriteString(e.Op)
	if e.Category != "" {
		fmt.Fprintf(&b, " %s page %d", e.Category, e.Page)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.TMDBConfig, logger *logrus.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tmdb base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid tmdb base URL: %w", err)
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// FetchMovies returns one page of a category listing.
func (c *Client) FetchMovies(ctx context.Context, category models.Category, page int) ([]Movie, error) {
	if !category.Valid() {
		return nil, &Error{Op: "fetch movies", Category: category, Page: page, Err: fmt.Errorf("unknown category")}
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var response MovieListResponse
	status, err := c.get(ctx, "/movie/"+string(category), params, &response)
	if err != nil {
		if errors.Is(err, ErrNoMoreData) {
			return nil, ErrNoMoreData
		}
		return nil, &Error{Op: "fetch movies", Category: category, Page: page, StatusCode: status, Err: err}
	}

	if response.TotalPages > 0 && page > response.TotalPages {
		return nil, ErrNoMoreData
	}

	c.logger.WithFields(logrus.Fields{
		"category":    category,
		"page":        page,
		"results":     len(response.Results),
		"total_pages": response.TotalPages,
	}).Debug("Fetched TMDB movie page")

	return response.Results, nil
}

// FetchGenres returns the movie genre reference list.
func (c *Client) FetchGenres(ctx context.Context) ([]Genre, error) {
	var response GenreListResponse
	status, err := c.get(ctx, "/genre/movie/list", url.Values{}, &response)
	if err != nil {
		return nil, &Error{Op: "fetch genres", StatusCode: status, Err: err}
	}
	return response.Genres, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (int, error) {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch from TMDB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr statusResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusCode == statusInvalidPage {
			return resp.StatusCode, ErrNoMoreData
		}
		return resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return resp.StatusCode, nil
}
