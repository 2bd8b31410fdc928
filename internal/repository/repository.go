package repository

import (
	"context"
	"time"

	"movie-catalog/internal/database"
)

const (
	TableMovies          = "movies"
	TableGenres          = "genres"
	TableMovieGenres     = "movie_genres"
	TableMovieCategories = "movie_categories"
	TablePreferences     = "preferences"
)

// base carries the connection and query timeout shared by every repository.
type base struct {
	conn    database.Conn
	timeout time.Duration
}

func newBase(db *database.Database) base {
	return base{conn: db, timeout: db.GetQueryTimeout()}
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

func (b base) withTx(tx *database.Tx) base {
	b.conn = tx
	return b
}
