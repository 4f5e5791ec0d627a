package postgres

import (
	"context"
	"os"
	"testing"

	"kinship/backend/internal/database"
	"kinship/backend/internal/store"
	"kinship/backend/internal/store/storetest"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// TestBackend runs the shared suites against a real database. Set
// TEST_DATABASE_URL to a disposable database to enable it.
func TestBackend(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.ConnectPostgres(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.ClosePostgres(db) })

	storetest.Run(t, func(t *testing.T) store.Backend {
		err := db.Exec("TRUNCATE users, relationships, requests, marks").Error
		require.NoError(t, err)
		return &nopCloser{New(db)}
	})
}

// nopCloser keeps the shared pool open across suites.
type nopCloser struct{ *Backend }

func (nopCloser) Close(context.Context) error { return nil }
