// Package testutil provides shared helpers for package tests: an isolated
// in-memory database, a frozen calendar, and the test environment guard.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/validation"
)

// Now is the frozen "current" moment used across tests: Thursday 2026-10-15 12:00 UTC.
var Now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// Dates relative to Now.
const (
	Today    = "2026-10-15"
	Tomorrow = "2026-10-16" // Friday
	Tuesday  = "2026-10-20"
	Past     = "2026-10-14"
)

var dbSeq atomic.Int64

// Calendar returns a calendar frozen at Now in UTC.
func Calendar() validation.Calendar {
	return validation.FixedCalendar(Now, time.UTC)
}

// NewTestDB opens a fresh, migrated in-memory sqlite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, store.Migrate(db), "Failed to migrate test database")
	return db
}

// NewTestStore returns a store backed by NewTestDB.
func NewTestStore(t *testing.T) *store.GormStore {
	t.Helper()
	return store.NewGormStore(NewTestDB(t))
}

// GuardTestMain is called from every package's TestMain. It defaults GO_ENV
// to "test" and refuses to run the package's tests under any other value, so
// a stray DATABASE_URL can never point a test run at real data.
func GuardTestMain(m *testing.M) int {
	env := os.Getenv("GO_ENV")
	if env == "" {
		os.Setenv("GO_ENV", "test")
		env = "test"
	}
	if env != "test" {
		fmt.Fprintf(os.Stderr, "refusing to run tests with GO_ENV=%q; run them with GO_ENV=test\n", env)
		return 1
	}
	return m.Run()
}
