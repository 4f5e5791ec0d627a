package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"kinship/backend/internal/database"
	"kinship/backend/internal/store"
	"kinship/backend/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// TestBackend runs the shared suites against a replica set. Set
// TEST_MONGO_URI to enable it; every suite gets its own database.
func TestBackend(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	storetest.Run(t, func(t *testing.T) store.Backend {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		name := fmt.Sprintf("kinship_test_%s", uuid.NewString()[:8])
		db, err := database.ConnectMongo(ctx, uri, name)
		require.NoError(t, err)
		require.NoError(t, database.EnsureMongoIndexes(ctx, db))

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = db.Drop(ctx)
			_ = db.Client().Disconnect(ctx)
		})
		return New(db, true, log)
	})
}
