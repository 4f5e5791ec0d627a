// Package relationship owns the friend/partner lifecycle: sending, accepting,
// rejecting and withdrawing requests, and removing established relationships.
//
// Per unordered pair and kind the state is Unrelated, RequestPending or
// Related. Unrelated has no record; RequestPending is a pending Request;
// Related is a Relationship. Every precondition is checked before any write.
package relationship

import (
	"context"
	"time"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Counterpart is the other side of one of a user's relationships.
type Counterpart struct {
	UserID uuid.UUID
	Kind   models.Kind
	Since  time.Time
}

// EventPayload is published to the affected user on every transition.
type EventPayload struct {
	From uuid.UUID   `json:"from"`
	To   uuid.UUID   `json:"to"`
	Kind models.Kind `json:"kind"`
}

// Engine validates and executes relationship transitions.
type Engine struct {
	store    Store
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewEngine returns an Engine over store. notifier and log may be nil.
func NewEngine(store Store, notifier Notifier, log logrus.FieldLogger) *Engine {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		store:    store,
		notifier: notifier,
		log:      log.WithField("component", "relationship"),
		now:      time.Now,
	}
}

// SendRequest creates a pending request from -> to.
func (e *Engine) SendRequest(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	if err := e.canSendRequest(ctx, from, to, kind); err != nil {
		return nil, err
	}

	req := models.NewRequest(from, to, kind, models.RequestPending, e.now())
	if err := e.store.Requests().Create(ctx, &req); err != nil {
		if apperr.IsConflict(err) {
			// lost a race with a request between the same pair
			return nil, &RequestAlreadyExistsError{User1: from, User2: to, Kind: kind}
		}
		return nil, errors.Wrap(err, "creating request")
	}

	e.log.WithFields(logrus.Fields{"from": from, "to": to, "kind": kind}).Info("Request sent")
	e.notifier.Notify(to, EventRequestReceived, EventPayload{From: from, To: to, Kind: kind})
	return &req, nil
}

// AcceptRequest resolves the pending request from -> to and creates the
// relationship. The pop, the accepted record and the relationship commit
// together through Store.InTx.
func (e *Engine) AcceptRequest(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Relationship, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}

	var rel models.Relationship
	err := e.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := popPending(ctx, tx, from, to, kind); err != nil {
			return err
		}
		now := e.now()
		accepted := models.NewRequest(from, to, kind, models.RequestAccepted, now)
		if err := tx.Requests().Create(ctx, &accepted); err != nil {
			return errors.Wrap(err, "recording accepted request")
		}
		rel = models.NewRelationship(from, to, kind, now)
		if err := tx.Relationships().Create(ctx, &rel); err != nil {
			if apperr.IsConflict(err) {
				return &AlreadyRelatedError{User1: from, User2: to, Kind: kind}
			}
			return errors.Wrap(err, "creating relationship")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"from": from, "to": to, "kind": kind}).Info("Request accepted")
	e.notifier.Notify(from, EventRequestAccepted, EventPayload{From: from, To: to, Kind: kind})
	return &rel, nil
}

// RejectRequest resolves the pending request from -> to as rejected. The
// pair returns to Unrelated and a new request may be sent afterwards.
func (e *Engine) RejectRequest(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}

	var rejected models.Request
	err := e.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := popPending(ctx, tx, from, to, kind); err != nil {
			return err
		}
		rejected = models.NewRequest(from, to, kind, models.RequestRejected, e.now())
		return errors.Wrap(tx.Requests().Create(ctx, &rejected), "recording rejected request")
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"from": from, "to": to, "kind": kind}).Info("Request rejected")
	e.notifier.Notify(from, EventRequestRejected, EventPayload{From: from, To: to, Kind: kind})
	return &rejected, nil
}

// RemoveRequest withdraws the pending request from -> to without recording
// a terminal status.
func (e *Engine) RemoveRequest(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}

	req, err := popPending(ctx, e.store, from, to, kind)
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"from": from, "to": to, "kind": kind}).Info("Request withdrawn")
	e.notifier.Notify(to, EventRequestWithdrawn, EventPayload{From: from, To: to, Kind: kind})
	return req, nil
}

// RemoveRelationship deletes the relationship of kind between user and other.
// Either participant may remove it.
func (e *Engine) RemoveRelationship(ctx context.Context, user, other uuid.UUID, kind models.Kind) (*models.Relationship, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}

	rel, err := e.store.Relationships().Remove(ctx, user, other, kind)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, &RelationshipNotFoundError{User1: user, User2: other, Kind: kind}
		}
		return nil, errors.Wrap(err, "removing relationship")
	}

	e.log.WithFields(logrus.Fields{"user": user, "other": other, "kind": kind}).Info("Relationship removed")
	e.notifier.Notify(other, EventRelationshipRemoved, EventPayload{From: user, To: other, Kind: kind})
	return rel, nil
}

// GetRelationships returns the counterparts of user's relationships. An
// empty kind returns every kind.
func (e *Engine) GetRelationships(ctx context.Context, user uuid.UUID, kind models.Kind) ([]Counterpart, error) {
	if err := validOptionalKind(kind); err != nil {
		return nil, err
	}

	rels, err := e.store.Relationships().ListFor(ctx, user, kind)
	if err != nil {
		return nil, errors.Wrap(err, "listing relationships")
	}

	out := make([]Counterpart, 0, len(rels))
	for _, rel := range rels {
		out = append(out, Counterpart{UserID: rel.Other(user), Kind: rel.Kind, Since: rel.CreatedAt})
	}
	return out, nil
}

// GetRequests returns every request record, any status, involving user. An
// empty kind returns every kind.
func (e *Engine) GetRequests(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Request, error) {
	if err := validOptionalKind(kind); err != nil {
		return nil, err
	}

	reqs, err := e.store.Requests().ListFor(ctx, user, kind)
	if err != nil {
		return nil, errors.Wrap(err, "listing requests")
	}
	return reqs, nil
}

// RelatedKinds returns the kinds of relationship currently linking u1 and u2.
func (e *Engine) RelatedKinds(ctx context.Context, u1, u2 uuid.UUID) ([]models.Kind, error) {
	var kinds []models.Kind
	for _, kind := range models.Kinds() {
		ok, err := e.store.Relationships().Exists(ctx, u1, u2, kind)
		if err != nil {
			return nil, errors.Wrap(err, "checking relationship")
		}
		if ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

func (e *Engine) canSendRequest(ctx context.Context, from, to uuid.UUID, kind models.Kind) error {
	if err := validKind(kind); err != nil {
		return err
	}
	if from == to {
		return &SelfRelationshipNotAllowedError{User: from}
	}

	rels := e.store.Relationships()
	if kind == models.KindPartner {
		friends, err := rels.Exists(ctx, from, to, models.KindFriend)
		if err != nil {
			return errors.Wrap(err, "checking friendship")
		}
		if !friends {
			return &PartnerRequiresFriendshipError{User1: from, User2: to}
		}
	}

	related, err := rels.Exists(ctx, from, to, kind)
	if err != nil {
		return errors.Wrap(err, "checking relationship")
	}
	if related {
		return &AlreadyRelatedError{User1: from, User2: to, Kind: kind}
	}

	pending, err := e.store.Requests().FindPending(ctx, from, to, kind)
	if err != nil {
		return errors.Wrap(err, "checking pending requests")
	}
	if pending != nil {
		return &RequestAlreadyExistsError{User1: from, User2: to, Kind: kind}
	}
	return nil
}

func popPending(ctx context.Context, s Store, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	req, err := s.Requests().PopPending(ctx, from, to, kind)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, &RequestNotFoundError{From: from, To: to, Kind: kind}
		}
		return nil, errors.Wrap(err, "removing pending request")
	}
	return req, nil
}

func validKind(kind models.Kind) error {
	if !kind.Valid() {
		_, err := models.ParseKind(string(kind))
		return err
	}
	return nil
}

func validOptionalKind(kind models.Kind) error {
	if kind == "" {
		return nil
	}
	return validKind(kind)
}
