package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler periodically reloads the first page of every category so stored
// listings and their live streams stay current.
type Scheduler struct {
	cron      *cron.Cron
	movies    services.MovieService
	schedule  string
	onStartup bool
	timeout   time.Duration
	logger    *logrus.Logger

	// ctx is cancelled by Stop; wg tracks the startup run.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(movies services.MovieService, schedule string, onStartup bool, logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:      cron.New(),
		movies:    movies,
		schedule:  schedule,
		onStartup: onStartup,
		timeout:   2 * time.Minute,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.WithField("schedule", s.schedule).Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunRefresh(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	if s.onStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.RunRefresh(s.ctx)
		}()
	}

	return nil
}

// Stop cancels in-flight refreshes and waits for them to return, including
// the startup run.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// RunRefresh refreshes genres, then page one of every category. A failing
// category does not stop the others.
func (s *Scheduler) RunRefresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("Running scheduled refresh")

	if _, err := s.movies.RefreshGenres(ctx); err != nil {
		s.logger.WithError(err).Error("Genre refresh failed")
	}

	failed := 0
	for _, category := range models.Categories() {
		movies, err := s.movies.LoadMore(ctx, category, models.PagingInfo{Page: 1})
		if err != nil {
			failed++
			s.logger.WithError(err).WithField("category", category).Error("Category refresh failed")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"category": category,
			"movies":   len(movies),
		}).Debug("Category refreshed")
	}

	if failed > 0 {
		s.logger.WithField("failed", failed).Warn("Scheduled refresh completed with errors")
		return
	}
	s.logger.Info("Scheduled refresh completed successfully")
}
