package collector

import (
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var setupTestEnvOnce sync.Once

// openTestPgBouncer opens the admin console of the PgBouncer given by
// PGBOUNCER_TEST_DSN, waiting up to 30 seconds for it to become available.
// e.g. "host=127.0.0.1 port=6432 user=pgbouncer dbname=pgbouncer sslmode=disable"
func openTestPgBouncer(tb testing.TB) *sql.DB {
	if testing.Short() {
		tb.Skip("-short is passed, skipping integration test")
	}
	dsn := os.Getenv("PGBOUNCER_TEST_DSN")
	if dsn == "" {
		tb.Skip("PGBOUNCER_TEST_DSN is not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(tb, err)
	db.SetMaxOpenConns(1)

	setupTestEnvOnce.Do(func() {
		for i := 0; i < 30; i++ {
			if _, err = fetchSingleRow(db, listsTopic); err == nil {
				break
			}
			tb.Log(err)
			time.Sleep(time.Second)
		}
		require.NoError(tb, err)
	})

	return db
}
