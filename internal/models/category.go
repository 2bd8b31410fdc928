package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one of the fixed TMDB movie listings. Its value doubles as the
// endpoint path segment under /movie.
type Category string

const (
	CategoryNowPlaying Category = "now_playing"
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
)

var categories = []Category{
	CategoryNowPlaying,
	CategoryPopular,
	CategoryTopRated,
	CategoryUpcoming,
}

var labelCaser = cases.Title(language.English)

// Categories returns all listings in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns a human readable name, e.g. "Now Playing".
func (c Category) Label() string {
	return labelCaser.String(strings.ReplaceAll(string(c), "_", " "))
}

// ParseCategory accepts the canonical value as well as dashed or compact
// spellings ("top-rated", "TopRated").
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, c := range categories {
		if normalized == string(c) || normalized == strings.ReplaceAll(string(c), "_", "") {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// PagingInfo selects which page of a listing to fetch next. It is never persisted.
type PagingInfo struct {
	Page int `json:"page"`
}

// Normalize clamps the page to the first page TMDB accepts.
func (p PagingInfo) Normalize() PagingInfo {
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}
