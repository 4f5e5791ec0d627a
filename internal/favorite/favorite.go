// Package favorite manages per-user item collections such as favorites and
// likes. Adds and removes are single set operations in the store, so two
// concurrent calls for the same item cannot duplicate or drop entries.
package favorite

import (
	"context"
	"fmt"
	"time"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxItemIDLength bounds the opaque item identifiers accepted by Add.
const MaxItemIDLength = 64

// Store persists marks.
type Store interface {
	// Add inserts mark unless the same item is already in the user's
	// collection; added reports whether anything changed.
	Add(ctx context.Context, mark *models.Mark) (added bool, err error)
	// Remove deletes the item from the user's collection; removed reports
	// whether it was there.
	Remove(ctx context.Context, c models.Collection, user uuid.UUID, t models.ItemType, itemID string) (removed bool, err error)
	// List returns the user's marks in the collection. An empty t matches all item types.
	List(ctx context.Context, c models.Collection, user uuid.UUID, t models.ItemType) ([]models.Mark, error)
	// Count returns how many users have the item in the collection.
	Count(ctx context.Context, c models.Collection, t models.ItemType, itemID string) (int64, error)
	// RemoveAllFor deletes every mark the user holds in any collection and
	// returns how many were removed.
	RemoveAllFor(ctx context.Context, user uuid.UUID) (int64, error)
}

// AlreadyMarkedError reports an item already present in the collection.
type AlreadyMarkedError struct {
	User       uuid.UUID
	Collection models.Collection
	ItemType   models.ItemType
	ItemID     string
}

func (e *AlreadyMarkedError) Error() string {
	return fmt.Sprintf("%s %s is already in the %s of user %s", e.ItemType, e.ItemID, e.Collection, e.User)
}

func (e *AlreadyMarkedError) Is(target error) bool { return target == apperr.ErrNotAllowed }

// MarkNotFoundError reports an item missing from the collection.
type MarkNotFoundError struct {
	User       uuid.UUID
	Collection models.Collection
	ItemType   models.ItemType
	ItemID     string
}

func (e *MarkNotFoundError) Error() string {
	return fmt.Sprintf("%s %s is not in the %s of user %s", e.ItemType, e.ItemID, e.Collection, e.User)
}

func (e *MarkNotFoundError) Is(target error) bool { return target == apperr.ErrNotFound }

// Service operates on one collection.
type Service struct {
	store      Store
	collection models.Collection
	log        logrus.FieldLogger
}

// NewService returns a Service for collection c.
func NewService(store Store, c models.Collection, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:      store,
		collection: c,
		log:        log.WithFields(logrus.Fields{"component": "favorite", "collection": c}),
	}
}

// Collection returns the collection this service manages.
func (s *Service) Collection() models.Collection {
	return s.collection
}

// Add puts an item into the user's collection.
func (s *Service) Add(ctx context.Context, user uuid.UUID, t models.ItemType, itemID string) (*models.Mark, error) {
	if itemID == "" || len(itemID) > MaxItemIDLength {
		return nil, apperr.Invalid(fmt.Sprintf("item id must be 1-%d characters", MaxItemIDLength))
	}

	mark := &models.Mark{
		ID:         uuid.New(),
		UserID:     user,
		Collection: s.collection,
		ItemType:   t,
		ItemID:     itemID,
		CreatedAt:  time.Now(),
	}
	added, err := s.store.Add(ctx, mark)
	if err != nil {
		return nil, errors.Wrapf(err, "adding %s to %s", t, s.collection)
	}
	if !added {
		return nil, &AlreadyMarkedError{User: user, Collection: s.collection, ItemType: t, ItemID: itemID}
	}

	s.log.WithFields(logrus.Fields{"user_id": user, "item_type": t, "item_id": itemID}).Debug("Item added")
	return mark, nil
}

// Remove takes an item out of the user's collection.
func (s *Service) Remove(ctx context.Context, user uuid.UUID, t models.ItemType, itemID string) error {
	removed, err := s.store.Remove(ctx, s.collection, user, t, itemID)
	if err != nil {
		return errors.Wrapf(err, "removing %s from %s", t, s.collection)
	}
	if !removed {
		return &MarkNotFoundError{User: user, Collection: s.collection, ItemType: t, ItemID: itemID}
	}

	s.log.WithFields(logrus.Fields{"user_id": user, "item_type": t, "item_id": itemID}).Debug("Item removed")
	return nil
}

// List returns the user's marks, optionally narrowed to one item type.
func (s *Service) List(ctx context.Context, user uuid.UUID, t models.ItemType) ([]models.Mark, error) {
	marks, err := s.store.List(ctx, s.collection, user, t)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", s.collection)
	}
	return marks, nil
}

// Count returns how many users have the item in this collection.
func (s *Service) Count(ctx context.Context, t models.ItemType, itemID string) (int64, error) {
	n, err := s.store.Count(ctx, s.collection, t, itemID)
	if err != nil {
		return 0, errors.Wrapf(err, "counting %s", s.collection)
	}
	return n, nil
}
