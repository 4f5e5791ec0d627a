// Package account removes a user together with every record that refers to
// them.
package account

import (
	"context"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/user"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Tx exposes the stores an account deletion writes.
type Tx interface {
	Users() user.Store
	Relationships() relationship.RelationshipStore
	Requests() relationship.RequestStore
	Marks() favorite.Store
}

// Store runs fn against a Tx whose writes commit together. fn must use the
// ctx and Tx it is given.
type Store interface {
	InAccountTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Removal counts what a deletion took with it.
type Removal struct {
	Relationships int
	Requests      int
	Marks         int64
}

// Service deletes accounts.
type Service struct {
	store    Store
	notifier relationship.Notifier
	log      logrus.FieldLogger
}

// NewService returns a Service over store. notifier may be nil.
func NewService(store Store, notifier relationship.Notifier, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, notifier: notifier, log: log.WithField("component", "account")}
}

// Delete removes the user, their relationships, every request record they
// sent or received and their marks in one transaction. Counterparts of
// removed relationships and pending requests are notified after commit.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Removal, error) {
	var (
		rels []models.Relationship
		reqs []models.Request
		n    int64
	)
	err := s.store.InAccountTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Users().Delete(ctx, id); err != nil {
			return errors.Wrap(err, "deleting user")
		}
		var err error
		if rels, err = tx.Relationships().RemoveAllFor(ctx, id); err != nil {
			return errors.Wrap(err, "removing relationships")
		}
		if reqs, err = tx.Requests().RemoveAllFor(ctx, id); err != nil {
			return errors.Wrap(err, "removing requests")
		}
		if n, err = tx.Marks().RemoveAllFor(ctx, id); err != nil {
			return errors.Wrap(err, "removing marks")
		}
		return nil
	})
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errors.Wrapf(apperr.ErrNotFound, "user %s", id)
		}
		return nil, err
	}

	for _, rel := range rels {
		s.notify(rel.Other(id), relationship.EventRelationshipRemoved, relationship.EventPayload{
			From: id, To: rel.Other(id), Kind: rel.Kind,
		})
	}
	for _, req := range reqs {
		if req.Status != models.RequestPending {
			continue
		}
		s.notify(req.Other(id), relationship.EventRequestWithdrawn, relationship.EventPayload{
			From: req.From, To: req.To, Kind: req.Kind,
		})
	}

	removal := &Removal{Relationships: len(rels), Requests: len(reqs), Marks: n}
	s.log.WithFields(logrus.Fields{
		"user_id":       id,
		"relationships": removal.Relationships,
		"requests":      removal.Requests,
		"marks":         removal.Marks,
	}).Info("Account deleted")
	return removal, nil
}

func (s *Service) notify(user uuid.UUID, eventType string, payload any) {
	if s.notifier != nil {
		s.notifier.Notify(user, eventType, payload)
	}
}
