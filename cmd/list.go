package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"movie-catalog/internal/models"
	"movie-catalog/internal/services"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var category string
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the stored movies of a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := models.ParseCategory(category)
			if err != nil {
				return err
			}
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return watchCategory(ctx, cmd.OutOrStdout(), app.movies, parsed)
			}

			movies, err := app.movies.ListCategory(cmd.Context(), parsed)
			if err != nil {
				return err
			}
			printMovies(cmd.OutOrStdout(), parsed, movies)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(models.CategoryPopular), "Category (now_playing, popular, top_rated, upcoming)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reprint the listing whenever the stored category changes")
	return cmd
}

// watchCategory prints the category listing every time it changes until ctx
// is done.
func watchCategory(ctx context.Context, out io.Writer, movies services.MovieService, category models.Category) error {
	sub := movies.StreamCategory(ctx, category)
	defer sub.Close()

	for {
		listing, ok := sub.Next(ctx)
		if !ok {
			return sub.Err()
		}
		printMovies(out, category, listing)
	}
}

func printMovies(out io.Writer, category models.Category, movies []models.Movie) {
	if len(movies) == 0 {
		fmt.Fprintf(out, "No stored movies for %s\n", category.Label())
		return
	}
	fmt.Fprint(out, renderMovies(movies))
}

func renderMovies(movies []models.Movie) string {
	rows := make([][]string, 0, len(movies))
	for i, m := range movies {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.ReleaseDate,
			strconv.FormatFloat(m.VoteAverage, 'f', 1, 64),
		})
	}
	return renderTable(
		[]string{"#", "ID", "Title", "Released", "Rating"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
	) + "\n"
}
