package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/repository/postgres/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database through pgx, applies pending migrations
// and wraps the pool in gorm.
func NewConnection(ctx context.Context, databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := Open(sqlDB, logLevel)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Open wraps an existing pool in gorm. Duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(sqlDB *sql.DB, logLevel logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		Experience: NewExperienceRepository(db),
		Project:    NewProjectRepository(db),
		Feedback:   NewFeedbackRepository(db),
	}
}
