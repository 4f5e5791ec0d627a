package memory

import (
	"testing"

	"kinship/backend/internal/store"
	"kinship/backend/internal/store/storetest"
)

func TestBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend { return New() })
}
