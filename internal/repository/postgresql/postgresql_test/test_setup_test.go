package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.RunMigrations(dsn))

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Pool.Exec(context.Background(),
		"TRUNCATE TABLE narrative_reports, payroll_records, refresh_tokens, users, companies CASCADE")
	require.NoError(t, err)

	return db
}
