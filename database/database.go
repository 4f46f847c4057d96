package database

import (
	"fmt"
	"time"

	"github.com/lshigami/tutorkeys/config"
	"github.com/lshigami/tutorkeys/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens postgres when a DSN is configured and falls back to the
// file-backed sqlite store for local development.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	if dsn := cfg.Database.DSN(); dsn != "" {
		log.Info().Msg("Connecting to Postgres...")
		db, err := gorm.Open(postgres.Open(dsn), gormConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	}

	log.Warn().Str("path", cfg.Database.SQLitePath).Msg("DATABASE_URL not set, using local sqlite database")
	return OpenSQLite(cfg.Database.SQLitePath, gormConfig(cfg))
}

// OpenSQLite opens a sqlite database. ":memory:" is accepted for tests; the
// pool is pinned to one connection so every query sees the same database.
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{TranslateError: true, Logger: gormlogger.Discard}
	}
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate creates or updates the tables for every persisted record.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Prompt{},
		&model.PredefinedExercise{},
		&model.ExerciseHistory{},
	); err != nil {
		return fmt.Errorf("auto-migrating tables: %w", err)
	}
	return nil
}

func gormConfig(cfg *config.Config) *gorm.Config {
	level := gormlogger.Warn
	if !cfg.IsProduction() {
		level = gormlogger.Info
	}
	return &gorm.Config{
		// Unique index violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(&log.Logger, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}
