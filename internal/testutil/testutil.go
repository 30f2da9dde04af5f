package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/cv-builder-api/internal/api"
	"github.com/dom/cv-builder-api/internal/cache"
	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/repository"
	repoPostgres "github.com/dom/cv-builder-api/internal/repository/postgres"
	"github.com/dom/cv-builder-api/internal/service"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL container and applies the schema migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_cv_builder"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(func() {
		testDB.Cleanup()
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := repoPostgres.NewConnection(ctx, dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	testDB.DB = db
	testDB.DSN = dsn
	return testDB
}

// Cleanup closes the pool and terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.DB != nil {
		if sqlDB, err := tdb.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"feedbacks", "projects", "experiences", "users"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		LogLevel:           "disabled",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		BcryptCost:         bcrypt.MinCost,
		StorageDriver:      config.StorageDisk,
		MaxUploadBytes:     5 << 20,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Cache    *cache.MemoryCache
	Store    *storage.DiskStore
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by a real database,
// an in-process CV cache and a temporary upload directory
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	cfg.UploadDir = t.TempDir()

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}

	cvCache := cache.NewMemoryCache(0)
	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cvCache, store, cfg)
	router := api.NewRouter(services, repos, store, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Cache:    cvCache,
		Store:    store,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}
