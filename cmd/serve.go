package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	_ "movie-catalog/docs"
	"movie-catalog/internal/database"
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/metrics"
	"movie-catalog/internal/routes"
	"movie-catalog/internal/scheduler"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			if port != "" {
				app.cfg.Server.Port = port
			}
			return serve(cmd.Context(), app)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides SERVER_PORT)")
	return cmd
}

func serve(ctx context.Context, a *application) error {
	log := a.log
	cfg := a.cfg

	server := newServer(a)

	var refresher *scheduler.Scheduler
	if cfg.Refresh.Schedule != "" {
		refresher = scheduler.NewScheduler(a.movies, cfg.Refresh.Schedule, cfg.Refresh.OnStartup, log)
		if err := refresher.Start(); err != nil {
			return err
		}
		defer refresher.Stop()
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go gracefulShutdown(ctx, server, log)

	log.Infof("Movie Catalog API starting on port %s", cfg.Server.Port)
	if err := server.Listen(":" + cfg.Server.Port); err != nil {
		log.Errorf("Failed to start HTTP server: %v", err)
		return err
	}
	return nil
}

func newServer(a *application) *fiber.App {
	cfg := a.cfg

	app := fiber.New(fiber.Config{
		AppName:               "Movie Catalog API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(a.log),
	})

	setupMiddleware(app, cfg.Server.AllowOrigins)

	app.Get("/health", healthCheckHandler(a.db))

	if cfg.Server.EnableMetrics {
		if err := metrics.RegisterSubscriberGauge(prometheus.DefaultRegisterer, a.db.Tracker()); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				a.log.WithError(err).Warn("Failed to register subscriber gauge")
			}
		}
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Swagger documentation
	if cfg.Server.EnableSwagger {
		app.Get("/swagger/*", fiberSwagger.WrapHandler)
	}

	movieHandler := handlers.NewMovieHandler(a.movies, a.log, cfg.Server.StreamHeartbeat)
	preferenceHandler := handlers.NewPreferenceHandler(a.preferences, a.log, cfg.Server.StreamHeartbeat)
	routes.Setup(app, movieHandler, preferenceHandler)

	return app
}

func setupMiddleware(app *fiber.App, allowOrigins string) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Last-Event-ID, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}))
}

func healthCheckHandler(db *database.Database) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "healthy"
		if err := db.HealthCheck(); err != nil {
			dbStatus = "unhealthy"
		}

		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     "movie-catalog",
			"version":     "1.0.0",
			"database":    dbStatus,
			"subscribers": db.Tracker().Observers(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     code,
			"request_id": c.Locals("requestid"),
		}).Error("Request error")

		return utils.ErrorResponse(c, code, err.Error())
	}
}

func gracefulShutdown(ctx context.Context, app *fiber.App, log *logrus.Logger) {
	<-ctx.Done()

	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}

	log.Info("Server shutdown complete")
}
