package models

import (
	"bytes"
	"fmt"
	"time"

	"kinship/backend/internal/apperr"

	"github.com/google/uuid"
)

// Kind is the category of a relationship or request.
type Kind string

const (
	KindFriend Kind = "friend"
	// KindPartner may only be requested between users who are already friends.
	KindPartner Kind = "partner"
)

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindFriend, KindPartner}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k == KindFriend || k == KindPartner
}

// ParseKind converts a wire value into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", apperr.Invalid(fmt.Sprintf("unknown relationship kind %q", s))
	}
	return k, nil
}

// RequestStatus is the state of a request record.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// OrderedPair returns a and b with the lower identifier first. Relationships
// and requests use it so one unique index covers both orderings of a pair.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// Relationship is an established, undirected link between two users.
// UserA and UserB are kept in OrderedPair order.
type Relationship struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserA     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_relationship_pair,priority:1"`
	UserB     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_relationship_pair,priority:2;index"`
	Kind      Kind      `gorm:"type:varchar(20);not null;uniqueIndex:idx_relationship_pair,priority:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRelationship builds a relationship record for the unordered pair {u1, u2}.
func NewRelationship(u1, u2 uuid.UUID, kind Kind, now time.Time) Relationship {
	a, b := OrderedPair(u1, u2)
	return Relationship{
		ID:        uuid.New(),
		UserA:     a,
		UserB:     b,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Involves reports whether user is one of the two participants.
func (r Relationship) Involves(user uuid.UUID) bool {
	return r.UserA == user || r.UserB == user
}

// Other returns the participant that is not user.
func (r Relationship) Other(user uuid.UUID) uuid.UUID {
	if r.UserA == user {
		return r.UserB
	}
	return r.UserA
}

// Request is a directed proposal from one user to another. Records are
// append-only: resolving a pending request deletes it and appends a new
// record with the terminal status.
type Request struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	From uuid.UUID `gorm:"column:from_user_id;type:uuid;not null;index"`
	To   uuid.UUID `gorm:"column:to_user_id;type:uuid;not null;index"`
	// PairLow and PairHigh hold {From, To} in OrderedPair order. The partial
	// unique index over them allows one pending request per pair and kind.
	PairLow   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_pending_request_pair,priority:1,where:status = 'pending'"`
	PairHigh  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_pending_request_pair,priority:2,where:status = 'pending'"`
	Kind      Kind          `gorm:"type:varchar(20);not null;uniqueIndex:idx_pending_request_pair,priority:3,where:status = 'pending'"`
	Status    RequestStatus `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time
}

// NewRequest builds a request record from -> to.
func NewRequest(from, to uuid.UUID, kind Kind, status RequestStatus, now time.Time) Request {
	low, high := OrderedPair(from, to)
	return Request{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		PairLow:   low,
		PairHigh:  high,
		Kind:      kind,
		Status:    status,
		CreatedAt: now,
	}
}

// Involves reports whether user sent or received the request.
func (r Request) Involves(user uuid.UUID) bool {
	return r.From == user || r.To == user
}

// Between reports whether the request links the unordered pair {u1, u2}.
func (r Request) Between(u1, u2 uuid.UUID) bool {
	return (r.From == u1 && r.To == u2) || (r.From == u2 && r.To == u1)
}

// Other returns the participant that is not user.
func (r Request) Other(user uuid.UUID) uuid.UUID {
	if r.From == user {
		return r.To
	}
	return r.From
}
