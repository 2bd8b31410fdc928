package main

import (
	"fmt"

	"movie-catalog/internal/models"

	"github.com/spf13/cobra"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var category string
	var page int

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fetch one page of a category from TMDB into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := models.ParseCategory(category)
			if err != nil {
				return err
			}
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			paging := models.PagingInfo{Page: page}.Normalize()
			movies, err := app.movies.LoadMore(cmd.Context(), parsed, paging)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(movies) == 0 {
				fmt.Fprintf(out, "%s page %d: no more movies\n", parsed.Label(), paging.Page)
				return nil
			}
			fmt.Fprintf(out, "%s page %d: %d movies stored\n", parsed.Label(), paging.Page, len(movies))
			fmt.Fprint(out, renderMovies(movies))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(models.CategoryPopular), "Category (now_playing, popular, top_rated, upcoming)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}
