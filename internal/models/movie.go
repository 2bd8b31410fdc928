package models

import "time"

type MovieRecord struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title            string    `gorm:"not null;index" json:"title"`
	OriginalTitle    string    `json:"original_title"`
	Overview         string    `gorm:"type:text" json:"overview"`
	ReleaseDate      string    `gorm:"index" json:"release_date"`
	PosterPath       string    `json:"poster_path"`
	BackdropPath     string    `json:"backdrop_path"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	Popularity       float64   `gorm:"index" json:"popularity"`
	Adult            bool      `json:"adult"`
	OriginalLanguage string    `gorm:"size:10" json:"original_language"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (MovieRecord) TableName() string {
	return "movies"
}

// MovieCategory records that a movie was listed on a category page. Page and
// Position keep the listing order stable across re-fetches.
type MovieCategory struct {
	MovieID   int64     `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	Category  Category  `gorm:"primaryKey;size:32;index" json:"category"`
	Page      int       `gorm:"not null" json:"page"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (MovieCategory) TableName() string {
	return "movie_categories"
}

// Movie is the shape handed to stream subscribers and API clients.
type Movie struct {
	ID               int64   `json:"id" example:"550"`
	Title            string  `json:"title" example:"Fight Club"`
	OriginalTitle    string  `json:"original_title" example:"Fight Club"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date" example:"1999-10-15"`
	PosterPath       string  `json:"poster_path" example:"/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"`
	BackdropPath     string  `json:"backdrop_path" example:"/52AfXWuXCHn3UjD17rBruA9f5qb.jpg"`
	VoteAverage      float64 `json:"vote_average" example:"8.4"`
	VoteCount        int     `json:"vote_count" example:"26280"`
	Popularity       float64 `json:"popularity" example:"61.416"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language" example:"en"`
}

func (r MovieRecord) ToMovie() Movie {
	return Movie{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		ReleaseDate:      r.ReleaseDate,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		Adult:            r.Adult,
		OriginalLanguage: r.OriginalLanguage,
	}
}

type CatalogStats struct {
	Movies          int64 `json:"movies" example:"40"`
	Genres          int64 `json:"genres" example:"19"`
	MovieGenres     int64 `json:"movie_genres" example:"97"`
	MovieCategories int64 `json:"movie_categories" example:"40"`
	// Categories counts membership rows per category.
	Categories map[Category]int64 `json:"categories"`
}
