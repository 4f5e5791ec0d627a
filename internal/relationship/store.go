package relationship

import (
	"context"

	"kinship/backend/internal/models"

	"github.com/google/uuid"
)

// RelationshipStore persists established relationships. It performs no policy
// checks; the Engine owns every invariant.
type RelationshipStore interface {
	// Exists reports whether a relationship of kind links the unordered pair.
	Exists(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (bool, error)
	// Create inserts a relationship. A duplicate pair and kind yields apperr.ErrConflict.
	Create(ctx context.Context, rel *models.Relationship) error
	// Remove deletes and returns the relationship for the unordered pair, or
	// apperr.ErrNotFound.
	Remove(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Relationship, error)
	// ListFor returns every relationship involving user. An empty kind matches all kinds.
	ListFor(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Relationship, error)
	// RemoveAllFor deletes and returns every relationship involving user.
	RemoveAllFor(ctx context.Context, user uuid.UUID) ([]models.Relationship, error)
}

// RequestStore persists request records.
type RequestStore interface {
	// FindPending returns the pending request between the unordered pair, or
	// nil when there is none.
	FindPending(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Request, error)
	// Create appends a request record. A second pending record for the same
	// pair and kind yields apperr.ErrConflict.
	Create(ctx context.Context, req *models.Request) error
	// PopPending atomically removes and returns the pending request exactly
	// matching from -> to, or apperr.ErrNotFound.
	PopPending(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error)
	// ListFor returns every record, any status, sent or received by user. An
	// empty kind matches all kinds.
	ListFor(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Request, error)
	// RemoveAllFor deletes and returns every record, any status, sent or
	// received by user.
	RemoveAllFor(ctx context.Context, user uuid.UUID) ([]models.Request, error)
}

// Store groups the two stores the engine writes.
type Store interface {
	Relationships() RelationshipStore
	Requests() RequestStore
	// InTx runs fn against a store whose writes commit together. fn must use
	// the ctx and Store it is given.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Notifier receives an event for a user affected by a transition.
type Notifier interface {
	Notify(user uuid.UUID, eventType string, payload any)
}

// Event types published through the Notifier.
const (
	EventRequestReceived     = "request.received"
	EventRequestAccepted     = "request.accepted"
	EventRequestRejected     = "request.rejected"
	EventRequestWithdrawn    = "request.withdrawn"
	EventRelationshipRemoved = "relationship.removed"
)

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, any) {}
