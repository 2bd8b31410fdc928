package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "Manage the genre reference list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Fetch the TMDB genre list into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			n, err := app.movies.RefreshGenres(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d genres refreshed\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the stored genres",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			genres, err := app.movies.AllGenres(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(genres) == 0 {
				fmt.Fprintln(out, "No stored genres, run `genres refresh` first")
				return nil
			}
			rows := make([][]string, 0, len(genres))
			for _, g := range genres {
				rows = append(rows, []string{strconv.FormatInt(g.ID, 10), g.Name})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	})

	return cmd
}
