package models

import "time"

type GenreRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GenreRecord) TableName() string {
	return "genres"
}

// MovieGenre links a movie to one of its genres. The pair is the primary key,
// so inserting the same link twice is a no-op.
type MovieGenre struct {
	MovieID int64 `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	GenreID int64 `gorm:"primaryKey;autoIncrement:false;index" json:"genre_id"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}

type Genre struct {
	ID   int64  `json:"id" example:"28"`
	Name string `json:"name" example:"Action"`
}

func (r GenreRecord) ToGenre() Genre {
	return Genre{ID: r.ID, Name: r.Name}
}

// DefaultGenres is the TMDB movie genre table, used to seed an empty database
// before the first genre refresh.
var DefaultGenres = map[int64]string{
	28: "Action", 12: "Adventure", 16: "Animation", 35: "Comedy", 80: "Crime",
	99: "Documentary", 18: "Drama", 10751: "Family", 14: "Fantasy", 36: "History",
	27: "Horror", 10402: "Music", 9648: "Mystery", 10749: "Romance", 878: "Science Fiction",
	10770: "TV Movie", 53: "Thriller", 10752: "War", 37: "Western",
}
