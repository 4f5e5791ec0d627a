// Package storetest holds behaviour suites shared by every store.Backend.
// Each backend's tests call Run with a factory that yields an empty backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"kinship/backend/internal/account"
	"kinship/backend/internal/apperr"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/store"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty backend. It should register any cleanup with t.
type Factory func(t *testing.T) store.Backend

// Run executes every suite against backends produced by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Run("Users", func(t *testing.T) { RunUserStore(t, newBackend) })
	t.Run("Relationships", func(t *testing.T) { RunRelationshipStore(t, newBackend) })
	t.Run("Requests", func(t *testing.T) { RunRequestStore(t, newBackend) })
	t.Run("Marks", func(t *testing.T) { RunMarkStore(t, newBackend) })
	t.Run("Transactions", func(t *testing.T) { RunTransactions(t, newBackend) })
	t.Run("AccountEdits", func(t *testing.T) { RunAccountEdits(t, newBackend) })
	t.Run("AccountRemoval", func(t *testing.T) { RunAccountRemoval(t, newBackend) })
}

func newUser(name string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{ID: uuid.New(), Username: name, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
}

// RunUserStore checks account persistence.
func RunUserStore(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := newBackend(t)
	users := b.Users()

	alice := newUser("alice")
	require.NoError(t, users.Create(ctx, alice))

	err := users.Create(ctx, newUser("alice"))
	assert.True(t, apperr.IsConflict(err), "duplicate username should conflict, got %v", err)

	got, err := users.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = users.ByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = users.ByUsername(ctx, "nobody")
	assert.True(t, apperr.IsNotFound(err))
	_, err = users.ByID(ctx, uuid.New())
	assert.True(t, apperr.IsNotFound(err))

	bob := newUser("bob")
	require.NoError(t, users.Create(ctx, bob))
	found, err := users.ByIDs(ctx, []uuid.UUID{alice.ID, bob.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

// RunRelationshipStore checks unordered-pair semantics.
func RunRelationshipStore(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	rels := newBackend(t).Relationships()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	rel := models.NewRelationship(a, b, models.KindFriend, time.Now())
	require.NoError(t, rels.Create(ctx, &rel))

	for _, pair := range [][2]uuid.UUID{{a, b}, {b, a}} {
		ok, err := rels.Exists(ctx, pair[0], pair[1], models.KindFriend)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := rels.Exists(ctx, a, b, models.KindPartner)
	require.NoError(t, err)
	assert.False(t, ok)

	dup := models.NewRelationship(b, a, models.KindFriend, time.Now())
	assert.True(t, apperr.IsConflict(rels.Create(ctx, &dup)))

	other := models.NewRelationship(a, c, models.KindFriend, time.Now())
	require.NoError(t, rels.Create(ctx, &other))
	partner := models.NewRelationship(a, b, models.KindPartner, time.Now())
	require.NoError(t, rels.Create(ctx, &partner))

	friends, err := rels.ListFor(ctx, a, models.KindFriend)
	require.NoError(t, err)
	assert.Len(t, friends, 2)
	all, err := rels.ListFor(ctx, a, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	ofB, err := rels.ListFor(ctx, b, models.KindFriend)
	require.NoError(t, err)
	require.Len(t, ofB, 1)
	assert.Equal(t, a, ofB[0].Other(b))

	removed, err := rels.Remove(ctx, b, a, models.KindFriend)
	require.NoError(t, err)
	assert.Equal(t, rel.ID, removed.ID)

	_, err = rels.Remove(ctx, a, b, models.KindFriend)
	assert.True(t, apperr.IsNotFound(err))
}

// RunRequestStore checks pending lookup, popping and history.
func RunRequestStore(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	reqs := newBackend(t).Requests()
	a, b := uuid.New(), uuid.New()

	none, err := reqs.FindPending(ctx, a, b, models.KindFriend)
	require.NoError(t, err)
	assert.Nil(t, none)

	pending := models.NewRequest(a, b, models.KindFriend, models.RequestPending, time.Now())
	require.NoError(t, reqs.Create(ctx, &pending))

	found, err := reqs.FindPending(ctx, b, a, models.KindFriend)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, pending.ID, found.ID)

	crossed := models.NewRequest(b, a, models.KindFriend, models.RequestPending, time.Now())
	assert.True(t, apperr.IsConflict(reqs.Create(ctx, &crossed)), "second pending request between the pair must conflict")

	_, err = reqs.PopPending(ctx, b, a, models.KindFriend)
	assert.True(t, apperr.IsNotFound(err), "pop must match direction")

	popped, err := reqs.PopPending(ctx, a, b, models.KindFriend)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, popped.ID)

	_, err = reqs.PopPending(ctx, a, b, models.KindFriend)
	assert.True(t, apperr.IsNotFound(err))

	rejected := models.NewRequest(a, b, models.KindFriend, models.RequestRejected, time.Now())
	require.NoError(t, reqs.Create(ctx, &rejected))
	again := models.NewRequest(a, b, models.KindFriend, models.RequestPending, time.Now())
	require.NoError(t, reqs.Create(ctx, &again))
	partner := models.NewRequest(b, a, models.KindPartner, models.RequestPending, time.Now())
	require.NoError(t, reqs.Create(ctx, &partner))

	history, err := reqs.ListFor(ctx, b, models.KindFriend)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	everything, err := reqs.ListFor(ctx, a, "")
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

// RunMarkStore checks set semantics of collections.
func RunMarkStore(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	marks := newBackend(t).Marks()
	user, other := uuid.New(), uuid.New()

	mark := func(u uuid.UUID, c models.Collection, it models.ItemType, id string) *models.Mark {
		return &models.Mark{ID: uuid.New(), UserID: u, Collection: c, ItemType: it, ItemID: id, CreatedAt: time.Now()}
	}

	added, err := marks.Add(ctx, mark(user, models.CollectionFavorites, models.ItemPost, "p1"))
	require.NoError(t, err)
	assert.True(t, added)
	added, err = marks.Add(ctx, mark(user, models.CollectionFavorites, models.ItemPost, "p1"))
	require.NoError(t, err)
	assert.False(t, added)

	_, err = marks.Add(ctx, mark(user, models.CollectionFavorites, models.ItemReply, "r1"))
	require.NoError(t, err)
	_, err = marks.Add(ctx, mark(user, models.CollectionLikes, models.ItemPost, "p1"))
	require.NoError(t, err)
	_, err = marks.Add(ctx, mark(other, models.CollectionLikes, models.ItemPost, "p1"))
	require.NoError(t, err)

	favs, err := marks.List(ctx, models.CollectionFavorites, user, "")
	require.NoError(t, err)
	assert.Len(t, favs, 2)
	posts, err := marks.List(ctx, models.CollectionFavorites, user, models.ItemPost)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	n, err := marks.Count(ctx, models.CollectionLikes, models.ItemPost, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	removed, err := marks.Remove(ctx, models.CollectionFavorites, user, models.ItemPost, "p1")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = marks.Remove(ctx, models.CollectionFavorites, user, models.ItemPost, "p1")
	require.NoError(t, err)
	assert.False(t, removed)
}

// RunTransactions checks that InTx commits on success and discards every
// write on failure.
func RunTransactions(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := newBackend(t)
	a, c := uuid.New(), uuid.New()

	pending := models.NewRequest(a, c, models.KindFriend, models.RequestPending, time.Now())
	require.NoError(t, b.Requests().Create(ctx, &pending))

	boom := errors.New("abort")
	err := b.InTx(ctx, func(ctx context.Context, tx relationship.Store) error {
		if _, err := tx.Requests().PopPending(ctx, a, c, models.KindFriend); err != nil {
			return err
		}
		rel := models.NewRelationship(a, c, models.KindFriend, time.Now())
		if err := tx.Relationships().Create(ctx, &rel); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	still, err := b.Requests().FindPending(ctx, a, c, models.KindFriend)
	require.NoError(t, err)
	assert.NotNil(t, still, "rolled back pop must leave the request pending")
	related, err := b.Relationships().Exists(ctx, a, c, models.KindFriend)
	require.NoError(t, err)
	assert.False(t, related)

	err = b.InTx(ctx, func(ctx context.Context, tx relationship.Store) error {
		if _, err := tx.Requests().PopPending(ctx, a, c, models.KindFriend); err != nil {
			return err
		}
		rel := models.NewRelationship(a, c, models.KindFriend, time.Now())
		return tx.Relationships().Create(ctx, &rel)
	})
	require.NoError(t, err)

	related, err = b.Relationships().Exists(ctx, c, a, models.KindFriend)
	require.NoError(t, err)
	assert.True(t, related)
}

// RunAccountEdits checks search, update and delete of accounts.
func RunAccountEdits(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	users := newBackend(t).Users()

	alice, bob := newUser("alice"), newUser("bob")
	for _, u := range []*models.User{newUser("Alina"), bob, alice, newUser("a_b%c")} {
		require.NoError(t, users.Create(ctx, u))
	}

	found, err := users.Search(ctx, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "alice", found[0].Username)
	assert.Equal(t, "Alina", found[1].Username)

	wildcard, err := users.Search(ctx, "_b%")
	require.NoError(t, err)
	require.Len(t, wildcard, 1, "pattern characters must match literally")
	assert.Equal(t, "a_b%c", wildcard[0].Username)

	all, err := users.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	alice.Username = "alicia"
	alice.PasswordHash = "new-hash"
	require.NoError(t, users.Update(ctx, alice))
	got, err := users.ByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.Equal(t, "new-hash", got.PasswordHash)
	_, err = users.ByUsername(ctx, "alice")
	assert.True(t, apperr.IsNotFound(err))

	alice.Username = "bob"
	err = users.Update(ctx, alice)
	assert.True(t, apperr.IsConflict(err), "renaming onto a taken username should conflict, got %v", err)

	ghost := newUser("ghost")
	assert.True(t, apperr.IsNotFound(users.Update(ctx, ghost)))

	require.NoError(t, users.Delete(ctx, bob.ID))
	_, err = users.ByID(ctx, bob.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(users.Delete(ctx, bob.ID)))
}

// RunAccountRemoval checks the bulk removals account deletion relies on and
// that InAccountTx discards them on failure.
func RunAccountRemoval(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := newBackend(t)
	gone, keep := newUser("gone"), newUser("keep")
	require.NoError(t, b.Users().Create(ctx, gone))
	require.NoError(t, b.Users().Create(ctx, keep))
	other := uuid.New()

	for _, rel := range []models.Relationship{
		models.NewRelationship(gone.ID, keep.ID, models.KindFriend, time.Now()),
		models.NewRelationship(keep.ID, gone.ID, models.KindPartner, time.Now()),
		models.NewRelationship(keep.ID, other, models.KindFriend, time.Now()),
	} {
		require.NoError(t, b.Relationships().Create(ctx, &rel))
	}
	for _, req := range []models.Request{
		models.NewRequest(gone.ID, other, models.KindFriend, models.RequestPending, time.Now()),
		models.NewRequest(keep.ID, gone.ID, models.KindFriend, models.RequestAccepted, time.Now()),
		models.NewRequest(keep.ID, other, models.KindFriend, models.RequestPending, time.Now()),
	} {
		require.NoError(t, b.Requests().Create(ctx, &req))
	}
	for _, m := range []models.Mark{
		{ID: uuid.New(), UserID: gone.ID, Collection: models.CollectionFavorites, ItemType: models.ItemPost, ItemID: "p1", CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: gone.ID, Collection: models.CollectionLikes, ItemType: models.ItemReply, ItemID: "r1", CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: keep.ID, Collection: models.CollectionLikes, ItemType: models.ItemPost, ItemID: "p1", CreatedAt: time.Now()},
	} {
		_, err := b.Marks().Add(ctx, &m)
		require.NoError(t, err)
	}

	removeAll := func(ctx context.Context, tx account.Tx) error {
		if err := tx.Users().Delete(ctx, gone.ID); err != nil {
			return err
		}
		if _, err := tx.Relationships().RemoveAllFor(ctx, gone.ID); err != nil {
			return err
		}
		if _, err := tx.Requests().RemoveAllFor(ctx, gone.ID); err != nil {
			return err
		}
		_, err := tx.Marks().RemoveAllFor(ctx, gone.ID)
		return err
	}

	boom := errors.New("abort")
	err := b.InAccountTx(ctx, func(ctx context.Context, tx account.Tx) error {
		if err := removeAll(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = b.Users().ByID(ctx, gone.ID)
	require.NoError(t, err, "rolled back deletion must keep the user")
	rels, err := b.Relationships().ListFor(ctx, gone.ID, "")
	require.NoError(t, err)
	assert.Len(t, rels, 2)

	var (
		removedRels  []models.Relationship
		removedReqs  []models.Request
		removedMarks int64
	)
	err = b.InAccountTx(ctx, func(ctx context.Context, tx account.Tx) error {
		if err := tx.Users().Delete(ctx, gone.ID); err != nil {
			return err
		}
		var err error
		if removedRels, err = tx.Relationships().RemoveAllFor(ctx, gone.ID); err != nil {
			return err
		}
		if removedReqs, err = tx.Requests().RemoveAllFor(ctx, gone.ID); err != nil {
			return err
		}
		removedMarks, err = tx.Marks().RemoveAllFor(ctx, gone.ID)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, removedRels, 2)
	assert.Len(t, removedReqs, 2)
	assert.EqualValues(t, 2, removedMarks)

	rels, err = b.Relationships().ListFor(ctx, keep.ID, "")
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, other, rels[0].Other(keep.ID))
	reqs, err := b.Requests().ListFor(ctx, keep.ID, "")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, other, reqs[0].To)
	left, err := b.Requests().ListFor(ctx, gone.ID, "")
	require.NoError(t, err)
	assert.Empty(t, left)

	for _, c := range []models.Collection{models.CollectionFavorites, models.CollectionLikes} {
		marks, err := b.Marks().List(ctx, c, gone.ID, "")
		require.NoError(t, err)
		assert.Empty(t, marks)
	}
	n, err := b.Marks().Count(ctx, models.CollectionLikes, models.ItemPost, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	none, err := b.Marks().RemoveAllFor(ctx, gone.ID)
	require.NoError(t, err)
	assert.Zero(t, none)
}
