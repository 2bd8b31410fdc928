package main

import (
	"io"
	"os"
	"sync"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/database"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/services"
	"movie-catalog/internal/tmdb"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envDir string

	ctx := newCommandContext(&envDir)

	rootCmd := &cobra.Command{
		Use:           "movie-catalog",
		Short:         "TMDB movie catalog with a local store and live streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	wd, _ := os.Getwd()
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", wd, "Directory holding envs/.env files")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newLoadCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newGenresCommand(ctx))

	return rootCmd
}

// commandContext lazily builds the shared configuration and services so that
// `--help` never touches the database.
type commandContext struct {
	envDir *string
	output io.Writer

	once sync.Once
	app  *application
	err  error
}

func newCommandContext(envDir *string) *commandContext {
	return &commandContext{envDir: envDir, output: os.Stderr}
}

func (c *commandContext) ensureApp() (*application, error) {
	c.once.Do(func() {
		bootLog := logrus.New()
		bootLog.SetOutput(io.Discard)
		config.LoadEnvFiles(*c.envDir, bootLog)

		cfg := config.Load()
		log := setupLogger(cfg, c.output)
		c.app, c.err = newApplication(cfg, log)
	})
	return c.app, c.err
}

func (c *commandContext) close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}

// application wires the store, the TMDB client and the services.
type application struct {
	cfg         *config.Config
	log         *logrus.Logger
	db          *database.Database
	movies      services.MovieService
	preferences services.PreferenceService
}

func newApplication(cfg *config.Config, log *logrus.Logger) (*application, error) {
	if err := cfg.Validate(); err != nil {
		log.Warnf("Configuration validation warning: %v", err)
	}

	client, err := tmdb.NewClient(&cfg.TMDB, log)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	movieRepo := repository.NewMovieRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)

	return &application{
		cfg:         cfg,
		log:         log,
		db:          db,
		movies:      services.NewMovieService(db, movieRepo, categoryRepo, genreRepo, client, log),
		preferences: services.NewPreferenceService(db, preferenceRepo, log),
	}, nil
}

func (a *application) Close() error {
	return a.db.Close()
}

func setupLogger(cfg *config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Env == "dev" || cfg.Env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
