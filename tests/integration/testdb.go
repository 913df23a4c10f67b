// Package integration spins up real PostgreSQL containers for tests
// that need the full schema, including the migration history.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	applogger "github.com/tradelink/backend/internal/infrastructure/logger"
)

const (
	postgresImage = "postgres:16-alpine"
	startupWait   = 60 * time.Second
)

var sharedDB struct {
	mu        sync.Mutex
	container testcontainers.Container
	dsn       string
}

// TestDB bundles a migrated database with its container handle.
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

func startPostgres(t *testing.T, dbName string) (testcontainers.Container, string) {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupWait)),
	)
	require.NoError(t, err, "postgres container failed to start")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "connection string unavailable")

	return container, dsn
}

// NewTestDB starts a dedicated container with the full schema applied.
// Use it for tests that mutate data freely; every test gets its own
// database.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, dsn := startPostgres(t, "tradelink_test")
	db, sqlDB := openMigrated(t, dsn)

	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: container, DSN: dsn, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// NewSharedTestDB reuses one container across the package. Cheaper than
// NewTestDB, but the caller owns cleanup of whatever rows it writes.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedDB.mu.Lock()
	defer sharedDB.mu.Unlock()

	if sharedDB.container == nil {
		container, dsn := startPostgres(t, "tradelink_shared_test")
		db, sqlDB := openMigrated(t, dsn)
		require.NoError(t, sqlDB.Close())
		_ = db

		sharedDB.container = container
		sharedDB.dsn = dsn
	}

	db, sqlDB := openConnection(t, sharedDB.dsn)
	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: sharedDB.container, DSN: sharedDB.dsn, t: t}
	t.Cleanup(func() {
		if tdb.SqlDB != nil {
			tdb.SqlDB.Close()
		}
	})
	return tdb
}

// Close releases the connection and, for dedicated containers, tears
// the container down. The shared container outlives individual tests.
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}
	if tdb.Container != nil && tdb.Container != sharedDB.container {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("container terminate: %v", err)
		}
	}
}

// CleanupSharedContainer terminates the shared container. Call from
// TestMain after m.Run when the package uses NewSharedTestDB.
func CleanupSharedContainer() {
	sharedDB.mu.Lock()
	defer sharedDB.mu.Unlock()

	if sharedDB.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sharedDB.container.Terminate(ctx)
		sharedDB.container = nil
		sharedDB.dsn = ""
	}
}

// CleanTables truncates every application table, leaving the migration
// bookkeeping untouched.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "table listing failed")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("truncate %s: %v", table, err)
		}
	}
}

// WithTransaction runs fn inside a transaction that always rolls back.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "begin failed")
	defer tx.Rollback()

	fn(tx)
}

func openMigrated(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	db, sqlDB := openConnection(t, dsn)
	applyMigrations(t, sqlDB)
	return db, sqlDB
}

func openConnection(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: applogger.NewGormLogger(zap.NewNop(), level),
	})
	require.NoError(t, err, "gorm open failed")

	sqlDB, err := db.DB()
	require.NoError(t, err, "sql.DB unavailable")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "migrations directory not found")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "migrations failed")
	}
}

// findMigrationsPath walks up from this file looking for migrations/,
// falling back to paths relative to the working directory.
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if ok {
		dir := filepath.Dir(filename)
		for i := 0; i < 5; i++ {
			candidate := filepath.Join(dir, "migrations")
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			dir = filepath.Dir(dir)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		for _, p := range []string{
			filepath.Join(wd, "migrations"),
			filepath.Join(wd, "backend", "migrations"),
			filepath.Join(wd, "..", "migrations"),
			filepath.Join(wd, "..", "..", "backend", "migrations"),
		} {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// SeedProduct inserts a product row directly, bypassing the repository.
// Useful when a test only needs a product to reference by ID.
func (tdb *TestDB) SeedProduct(productID fmt.Stringer, sku, gtin string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO products (id, created_at, updated_at, sku, name, gtin, unit, unit_price, status, version)
		VALUES (?, NOW(), NOW(), ?, ?, ?, 'EA', 1.0000, 'active', 1)
		ON CONFLICT (sku) DO NOTHING
	`, productID.String(), sku, fmt.Sprintf("Test Product %s", sku), gtin).Error
	require.NoError(tdb.t, err, "product seed failed")
}

// SeedPartner inserts a trading partner row directly, so foreign keys
// on purchase orders hold without going through the partner aggregate.
func (tdb *TestDB) SeedPartner(partnerID fmt.Stringer, code, partyID string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO trading_partners (id, created_at, updated_at, code, party_id, name, currency, status, version)
		VALUES (?, NOW(), NOW(), ?, ?, ?, 'EUR', 'active', 1)
	`, partnerID.String(), code, partyID, fmt.Sprintf("Test Partner %s", code)).Error
	require.NoError(tdb.t, err, "partner seed failed")
}

// SeedInterchange inserts an outbound interchange row in the given
// lifecycle state.
func (tdb *TestDB) SeedInterchange(interchangeID fmt.Stringer, messageRef, status string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO interchanges (id, created_at, updated_at, version, direction, message_ref, payload_size, segment_count, status)
		VALUES (?, NOW(), NOW(), 1, 'outbound', ?, 412, 12, ?)
		ON CONFLICT (message_ref) DO NOTHING
	`, interchangeID.String(), messageRef, status).Error
	require.NoError(tdb.t, err, "interchange seed failed")
}
