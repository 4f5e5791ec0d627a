package mongo

import (
	"time"

	"kinship/backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Identifiers are stored as their canonical string form so documents stay
// readable from the mongo shell.

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) model() (models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.User{}, errors.Wrapf(err, "user document %q", d.ID)
	}
	return models.User{
		ID:           id,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type relationshipDoc struct {
	ID        string    `bson:"_id"`
	UserA     string    `bson:"user_a"`
	UserB     string    `bson:"user_b"`
	Kind      string    `bson:"kind"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newRelationshipDoc(r *models.Relationship) relationshipDoc {
	a, b := models.OrderedPair(r.UserA, r.UserB)
	return relationshipDoc{
		ID:        r.ID.String(),
		UserA:     a.String(),
		UserB:     b.String(),
		Kind:      string(r.Kind),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d relationshipDoc) model() (models.Relationship, error) {
	ids, err := parseIDs(d.ID, d.UserA, d.UserB)
	if err != nil {
		return models.Relationship{}, errors.Wrap(err, "relationship document")
	}
	return models.Relationship{
		ID:        ids[0],
		UserA:     ids[1],
		UserB:     ids[2],
		Kind:      models.Kind(d.Kind),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type requestDoc struct {
	ID        string    `bson:"_id"`
	From      string    `bson:"from"`
	To        string    `bson:"to"`
	PairLow   string    `bson:"pair_low"`
	PairHigh  string    `bson:"pair_high"`
	Kind      string    `bson:"kind"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
}

func newRequestDoc(r *models.Request) requestDoc {
	low, high := models.OrderedPair(r.From, r.To)
	return requestDoc{
		ID:        r.ID.String(),
		From:      r.From.String(),
		To:        r.To.String(),
		PairLow:   low.String(),
		PairHigh:  high.String(),
		Kind:      string(r.Kind),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func (d requestDoc) model() (models.Request, error) {
	ids, err := parseIDs(d.ID, d.From, d.To, d.PairLow, d.PairHigh)
	if err != nil {
		return models.Request{}, errors.Wrap(err, "request document")
	}
	return models.Request{
		ID:        ids[0],
		From:      ids[1],
		To:        ids[2],
		PairLow:   ids[3],
		PairHigh:  ids[4],
		Kind:      models.Kind(d.Kind),
		Status:    models.RequestStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}, nil
}

// markSetDoc holds one user's items of one type in one collection. Items are
// added with $addToSet and removed with $pull.
type markSetDoc struct {
	UserID     string   `bson:"user_id"`
	Collection string   `bson:"collection"`
	ItemType   string   `bson:"item_type"`
	ItemIDs    []string `bson:"item_ids"`
}

func (d markSetDoc) marks() ([]models.Mark, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, errors.Wrapf(err, "mark set of %q", d.UserID)
	}
	out := make([]models.Mark, 0, len(d.ItemIDs))
	for _, itemID := range d.ItemIDs {
		out = append(out, models.Mark{
			UserID:     userID,
			Collection: models.Collection(d.Collection),
			ItemType:   models.ItemType(d.ItemType),
			ItemID:     itemID,
		})
	}
	return out, nil
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing id %q", s)
		}
		out[i] = id
	}
	return out, nil
}
