// Package mongo implements store.Backend on MongoDB.
package mongo

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"kinship/backend/internal/account"
	"kinship/backend/internal/apperr"
	"kinship/backend/internal/database"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/user"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Backend stores each record type in its own collection.
type Backend struct {
	db           *mongodriver.Database
	transactions bool
	log          logrus.FieldLogger
	warnOnce     *sync.Once
}

// New returns a Backend over db. With transactions enabled InTx uses a
// multi-document transaction, which requires a replica set; without them
// InTx runs its writes one after another.
func New(db *mongodriver.Database, transactions bool, log logrus.FieldLogger) *Backend {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Backend{
		db:           db,
		transactions: transactions,
		log:          log.WithField("component", "mongo"),
		warnOnce:     &sync.Once{},
	}
}

var (
	_ relationship.Store = (*Backend)(nil)
	_ account.Store      = (*Backend)(nil)
)

func (b *Backend) coll(name string) *mongodriver.Collection {
	return b.db.Collection(name)
}

func translate(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongodriver.ErrNoDocuments):
		return errors.Wrapf(apperr.ErrNotFound, format, args...)
	case mongodriver.IsDuplicateKeyError(err):
		return errors.Wrapf(apperr.ErrConflict, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

// InTx runs fn in a session transaction. The session travels in the ctx
// handed to fn, so every store call made with it joins the transaction.
func (b *Backend) InTx(ctx context.Context, fn func(ctx context.Context, tx relationship.Store) error) error {
	return b.atomic(ctx, func(ctx context.Context) error { return fn(ctx, b) })
}

// InAccountTx runs fn in a session transaction, like InTx.
func (b *Backend) InAccountTx(ctx context.Context, fn func(ctx context.Context, tx account.Tx) error) error {
	return b.atomic(ctx, func(ctx context.Context) error { return fn(ctx, b) })
}

func (b *Backend) atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.transactions {
		b.warnOnce.Do(func() {
			b.log.Warn("Mongo transactions disabled; multi-document writes are not atomic")
		})
		return fn(ctx)
	}

	sess, err := b.db.Client().StartSession()
	if err != nil {
		return errors.Wrap(err, "starting mongo session")
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongodriver.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

func (b *Backend) Users() user.Store                             { return userStore{b.coll(database.UsersCollection)} }
func (b *Backend) Relationships() relationship.RelationshipStore { return relationshipStore{b.coll(database.RelationshipsCollection)} }
func (b *Backend) Requests() relationship.RequestStore           { return requestStore{b.coll(database.RequestsCollection)} }
func (b *Backend) Marks() favorite.Store                         { return markStore{b.coll(database.MarksCollection)} }

// Close disconnects the client.
func (b *Backend) Close(ctx context.Context) error {
	return b.db.Client().Disconnect(ctx)
}

var byCreation = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

type userStore struct{ c *mongodriver.Collection }

func (s userStore) Create(ctx context.Context, u *models.User) error {
	_, err := s.c.InsertOne(ctx, newUserDoc(u))
	return translate(err, "creating user %q", u.Username)
}

func (s userStore) findOne(ctx context.Context, filter bson.M, format string, args ...any) (*models.User, error) {
	var doc userDoc
	if err := s.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, format, args...)
	}
	u, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s userStore) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()}, "user %s", id)
}

func (s userStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username}, "user %q", username)
}

func (s userStore) ByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": raw}})
}

// Search sorts in memory: a plain index sort on username is case-sensitive.
func (s userStore) Search(ctx context.Context, q string) ([]models.User, error) {
	filter := bson.M{}
	if q != "" {
		filter["username"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	}
	users, err := s.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Username) < strings.ToLower(users[j].Username)
	})
	return users, nil
}

func (s userStore) Update(ctx context.Context, u *models.User) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": u.ID.String()}, bson.M{"$set": bson.M{
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"updated_at":    u.UpdatedAt,
	}})
	if err != nil {
		return translate(err, "updating user %s", u.ID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(apperr.ErrNotFound, "user %s", u.ID)
	}
	return nil
}

func (s userStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return translate(err, "deleting user %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(apperr.ErrNotFound, "user %s", id)
	}
	return nil
}

func (s userStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, translate(err, "loading users")
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decoding users")
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		u, err := doc.model()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

type relationshipStore struct{ c *mongodriver.Collection }

func pairFilter(u1, u2 uuid.UUID, kind models.Kind) bson.M {
	a, b := models.OrderedPair(u1, u2)
	return bson.M{"user_a": a.String(), "user_b": b.String(), "kind": string(kind)}
}

func (s relationshipStore) Exists(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (bool, error) {
	n, err := s.c.CountDocuments(ctx, pairFilter(u1, u2, kind), options.Count().SetLimit(1))
	return n > 0, translate(err, "checking %s relationship", kind)
}

func (s relationshipStore) Create(ctx context.Context, rel *models.Relationship) error {
	rel.UserA, rel.UserB = models.OrderedPair(rel.UserA, rel.UserB)
	_, err := s.c.InsertOne(ctx, newRelationshipDoc(rel))
	return translate(err, "creating %s relationship", rel.Kind)
}

func (s relationshipStore) Remove(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Relationship, error) {
	var doc relationshipDoc
	if err := s.c.FindOneAndDelete(ctx, pairFilter(u1, u2, kind)).Decode(&doc); err != nil {
		return nil, translate(err, "%s relationship %s/%s", kind, u1, u2)
	}
	rel, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func involvesRelationship(user uuid.UUID) bson.M {
	return bson.M{"$or": bson.A{bson.M{"user_a": user.String()}, bson.M{"user_b": user.String()}}}
}

func (s relationshipStore) ListFor(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Relationship, error) {
	filter := involvesRelationship(user)
	if kind != "" {
		filter["kind"] = string(kind)
	}
	return s.find(ctx, filter)
}

func (s relationshipStore) RemoveAllFor(ctx context.Context, user uuid.UUID) ([]models.Relationship, error) {
	rels, err := s.find(ctx, involvesRelationship(user))
	if err != nil || len(rels) == 0 {
		return nil, err
	}
	ids := make([]string, len(rels))
	for i, rel := range rels {
		ids[i] = rel.ID.String()
	}
	_, err = s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return rels, translate(err, "removing relationships of %s", user)
}

func (s relationshipStore) find(ctx context.Context, filter bson.M) ([]models.Relationship, error) {
	cur, err := s.c.Find(ctx, filter, byCreation)
	if err != nil {
		return nil, translate(err, "listing relationships")
	}
	var docs []relationshipDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decoding relationships")
	}

	rels := make([]models.Relationship, 0, len(docs))
	for _, doc := range docs {
		rel, err := doc.model()
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

type requestStore struct{ c *mongodriver.Collection }

func (s requestStore) FindPending(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Request, error) {
	low, high := models.OrderedPair(u1, u2)
	filter := bson.M{
		"pair_low":  low.String(),
		"pair_high": high.String(),
		"kind":      string(kind),
		"status":    string(models.RequestPending),
	}

	var doc requestDoc
	err := s.c.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "finding pending %s request", kind)
	}
	req, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s requestStore) Create(ctx context.Context, req *models.Request) error {
	req.PairLow, req.PairHigh = models.OrderedPair(req.From, req.To)
	_, err := s.c.InsertOne(ctx, newRequestDoc(req))
	return translate(err, "creating %s request", req.Kind)
}

func (s requestStore) PopPending(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	filter := bson.M{
		"from":   from.String(),
		"to":     to.String(),
		"kind":   string(kind),
		"status": string(models.RequestPending),
	}

	var doc requestDoc
	if err := s.c.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, "pending %s request %s -> %s", kind, from, to)
	}
	req, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func involvesRequest(user uuid.UUID) bson.M {
	return bson.M{"$or": bson.A{bson.M{"from": user.String()}, bson.M{"to": user.String()}}}
}

func (s requestStore) ListFor(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Request, error) {
	filter := involvesRequest(user)
	if kind != "" {
		filter["kind"] = string(kind)
	}
	return s.find(ctx, filter)
}

func (s requestStore) RemoveAllFor(ctx context.Context, user uuid.UUID) ([]models.Request, error) {
	reqs, err := s.find(ctx, involvesRequest(user))
	if err != nil || len(reqs) == 0 {
		return nil, err
	}
	ids := make([]string, len(reqs))
	for i, req := range reqs {
		ids[i] = req.ID.String()
	}
	_, err = s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return reqs, translate(err, "removing requests of %s", user)
}

func (s requestStore) find(ctx context.Context, filter bson.M) ([]models.Request, error) {
	cur, err := s.c.Find(ctx, filter, byCreation)
	if err != nil {
		return nil, translate(err, "listing requests")
	}
	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decoding requests")
	}

	reqs := make([]models.Request, 0, len(docs))
	for _, doc := range docs {
		req, err := doc.model()
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

type markStore struct{ c *mongodriver.Collection }

func setFilter(c models.Collection, user uuid.UUID, t models.ItemType) bson.M {
	return bson.M{"user_id": user.String(), "collection": string(c), "item_type": string(t)}
}

func (s markStore) Add(ctx context.Context, mark *models.Mark) (bool, error) {
	filter := setFilter(mark.Collection, mark.UserID, mark.ItemType)
	update := bson.M{"$addToSet": bson.M{"item_ids": mark.ItemID}}
	opts := options.Update().SetUpsert(true)

	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if mongodriver.IsDuplicateKeyError(err) {
		// two upserts raced to create the set; the retry finds the winner's document
		res, err = s.c.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return false, translate(err, "adding mark")
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

func (s markStore) Remove(ctx context.Context, c models.Collection, user uuid.UUID, t models.ItemType, itemID string) (bool, error) {
	filter := setFilter(c, user, t)
	filter["item_ids"] = itemID

	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"item_ids": itemID}})
	if err != nil {
		return false, translate(err, "removing mark")
	}
	return res.ModifiedCount > 0, nil
}

func (s markStore) List(ctx context.Context, c models.Collection, user uuid.UUID, t models.ItemType) ([]models.Mark, error) {
	filter := bson.M{"user_id": user.String(), "collection": string(c)}
	if t != "" {
		filter["item_type"] = string(t)
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "item_type", Value: 1}}))
	if err != nil {
		return nil, translate(err, "listing marks")
	}
	var docs []markSetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decoding marks")
	}

	var out []models.Mark
	for _, doc := range docs {
		marks, err := doc.marks()
		if err != nil {
			return nil, err
		}
		out = append(out, marks...)
	}
	return out, nil
}

func (s markStore) Count(ctx context.Context, c models.Collection, t models.ItemType, itemID string) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"collection": string(c), "item_type": string(t), "item_ids": itemID})
	return n, translate(err, "counting marks")
}

func (s markStore) RemoveAllFor(ctx context.Context, user uuid.UUID) (int64, error) {
	filter := bson.M{"user_id": user.String()}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return 0, translate(err, "loading marks of %s", user)
	}
	var docs []markSetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return 0, translate(err, "decoding marks")
	}
	var n int64
	for _, doc := range docs {
		n += int64(len(doc.ItemIDs))
	}

	if _, err := s.c.DeleteMany(ctx, filter); err != nil {
		return 0, translate(err, "removing marks of %s", user)
	}
	return n, nil
}
