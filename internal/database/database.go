package database

import (
	"context"
	"fmt"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/live"
	"movie-catalog/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Conn is a handle repositories run their queries through. Both *Database and
// *Tx implement it.
type Conn interface {
	WithContext(ctx context.Context) *gorm.DB
	// Touch reports that tables were written so live queries re-run.
	Touch(tables ...string)
}

type Database struct {
	*gorm.DB
	config  config.DatabaseConfig
	tracker *live.Tracker
}

func Connect(cfg *config.Config) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		// The statement cache locks around prepares on the pool, which
		// deadlocks against an open transaction on SQLite's single connection.
		PrepareStmt: cfg.Database.Driver == config.DriverPostgres,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Failed to get underlying sql.DB")
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		logrus.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite allows a single writer; serialize on one connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}

	logrus.WithField("driver", cfg.Database.Driver).Info("Database connection established successfully")

	database := &Database{
		DB:      db,
		config:  cfg.Database,
		tracker: live.NewTracker(),
	}

	if err := autoMigrate(db); err != nil {
		logrus.WithError(err).Error("Failed to run auto migration")
		return nil, fmt.Errorf("failed to run auto migration: %w", err)
	}

	if err := seedGenres(ctx, db); err != nil {
		logrus.WithError(err).Error("Failed to seed genres")
		return nil, fmt.Errorf("failed to seed genres: %w", err)
	}

	return database, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.GetDSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.GetDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func (d *Database) WithContext(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

func (d *Database) Touch(tables ...string) {
	d.tracker.Notify(tables...)
}

// Tracker exposes the change tracker live queries register with.
func (d *Database) Tracker() *live.Tracker {
	return d.tracker
}

func (d *Database) GetQueryTimeout() time.Duration {
	return d.config.QueryTimeout
}

// Transaction runs fn inside a database transaction. Tables touched through
// the Tx are announced only after a successful commit.
func (d *Database) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	var touched []string
	err := d.DB.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		tx := &Tx{db: gtx}
		if err := fn(tx); err != nil {
			return err
		}
		touched = tx.touched
		return nil
	})
	if err != nil {
		return err
	}
	d.tracker.Notify(touched...)
	return nil
}

func (d *Database) HealthCheck() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Tx is a Conn bound to an open transaction.
type Tx struct {
	db      *gorm.DB
	touched []string
}

func (t *Tx) WithContext(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

func (t *Tx) Touch(tables ...string) {
	t.touched = append(t.touched, tables...)
}

func autoMigrate(db *gorm.DB) error {
	logrus.Info("Running auto migration...")

	err := db.AutoMigrate(
		&models.MovieRecord{},
		&models.GenreRecord{},
		&models.MovieGenre{},
		&models.MovieCategory{},
		&models.Preference{},
	)

	if err != nil {
		return err
	}

	logrus.Info("Auto migration completed successfully")
	return nil
}

func seedGenres(ctx context.Context, db *gorm.DB) error {
	genres := make([]models.GenreRecord, 0, len(models.DefaultGenres))
	for id, name := range models.DefaultGenres {
		genres = append(genres, models.GenreRecord{ID: id, Name: name})
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&genres).Error
}
