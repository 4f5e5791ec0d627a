// Package memory is an in-process Backend. It backs STORE_DRIVER=memory for
// local development and is the reference backend for the store test suites.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"kinship/backend/internal/account"
	"kinship/backend/internal/apperr"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/user"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type state struct {
	users         []models.User
	relationships []models.Relationship
	requests      []models.Request
	marks         []models.Mark
}

func (s *state) clone() *state {
	return &state{
		users:         append([]models.User(nil), s.users...),
		relationships: append([]models.Relationship(nil), s.relationships...),
		requests:      append([]models.Request(nil), s.requests...),
		marks:         append([]models.Mark(nil), s.marks...),
	}
}

// Backend keeps every record in slices guarded by one mutex. Slices keep
// insertion order, which stands in for a store-assigned sequence.
type Backend struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{mu: &sync.Mutex{}, st: &state{}}
}

var (
	_ relationship.Store = (*Backend)(nil)
	_ account.Store      = (*Backend)(nil)
	_ user.Store         = userStore{}
	_ favorite.Store     = markStore{}
)

func (b *Backend) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.mu.Lock()
	return b.mu.Unlock
}

// InTx holds the lock for the whole of fn and restores the previous state
// if fn fails.
func (b *Backend) InTx(ctx context.Context, fn func(ctx context.Context, tx relationship.Store) error) error {
	return b.atomic(ctx, func(ctx context.Context, tx *Backend) error { return fn(ctx, tx) })
}

// InAccountTx is InTx for account deletion.
func (b *Backend) InAccountTx(ctx context.Context, fn func(ctx context.Context, tx account.Tx) error) error {
	return b.atomic(ctx, func(ctx context.Context, tx *Backend) error { return fn(ctx, tx) })
}

func (b *Backend) atomic(ctx context.Context, fn func(ctx context.Context, tx *Backend) error) error {
	if b.inTx {
		return fn(ctx, b)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := b.st.clone()
	tx := &Backend{mu: b.mu, st: b.st, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*b.st = *snapshot
		return err
	}
	return nil
}

func (b *Backend) Users() user.Store                            { return userStore{b} }
func (b *Backend) Relationships() relationship.RelationshipStore { return relationshipStore{b} }
func (b *Backend) Requests() relationship.RequestStore           { return requestStore{b} }
func (b *Backend) Marks() favorite.Store                         { return markStore{b} }

// Close is a no-op; it lets the Backend satisfy the same shutdown path as
// the database backends.
func (b *Backend) Close(context.Context) error { return nil }

type userStore struct{ b *Backend }

func (s userStore) Create(_ context.Context, u *models.User) error {
	defer s.b.lock()()
	for _, existing := range s.b.st.users {
		if existing.Username == u.Username || existing.ID == u.ID {
			return errors.Wrapf(apperr.ErrConflict, "username %q", u.Username)
		}
	}
	s.b.st.users = append(s.b.st.users, *u)
	return nil
}

func (s userStore) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	defer s.b.lock()()
	for _, u := range s.b.st.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, errors.Wrapf(apperr.ErrNotFound, "user %s", id)
}

func (s userStore) ByUsername(_ context.Context, username string) (*models.User, error) {
	defer s.b.lock()()
	for _, u := range s.b.st.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, errors.Wrapf(apperr.ErrNotFound, "user %q", username)
}

func (s userStore) ByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	defer s.b.lock()()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.User
	for _, u := range s.b.st.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s userStore) Search(_ context.Context, q string) ([]models.User, error) {
	defer s.b.lock()()
	q = strings.ToLower(q)
	var out []models.User
	for _, u := range s.b.st.users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (s userStore) Update(_ context.Context, u *models.User) error {
	defer s.b.lock()()
	i := -1
	for j, existing := range s.b.st.users {
		if existing.ID == u.ID {
			i = j
		} else if existing.Username == u.Username {
			return errors.Wrapf(apperr.ErrConflict, "username %q", u.Username)
		}
	}
	if i < 0 {
		return errors.Wrapf(apperr.ErrNotFound, "user %s", u.ID)
	}
	s.b.st.users[i].Username = u.Username
	s.b.st.users[i].PasswordHash = u.PasswordHash
	s.b.st.users[i].UpdatedAt = u.UpdatedAt
	return nil
}

func (s userStore) Delete(_ context.Context, id uuid.UUID) error {
	defer s.b.lock()()
	for i, u := range s.b.st.users {
		if u.ID == id {
			s.b.st.users = append(s.b.st.users[:i:i], s.b.st.users[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(apperr.ErrNotFound, "user %s", id)
}

type relationshipStore struct{ b *Backend }

func (s relationshipStore) index(u1, u2 uuid.UUID, kind models.Kind) int {
	a, b := models.OrderedPair(u1, u2)
	for i, rel := range s.b.st.relationships {
		if rel.UserA == a && rel.UserB == b && rel.Kind == kind {
			return i
		}
	}
	return -1
}

func (s relationshipStore) Exists(_ context.Context, u1, u2 uuid.UUID, kind models.Kind) (bool, error) {
	defer s.b.lock()()
	return s.index(u1, u2, kind) >= 0, nil
}

func (s relationshipStore) Create(_ context.Context, rel *models.Relationship) error {
	defer s.b.lock()()
	if s.index(rel.UserA, rel.UserB, rel.Kind) >= 0 {
		return errors.Wrapf(apperr.ErrConflict, "%s relationship %s/%s", rel.Kind, rel.UserA, rel.UserB)
	}
	stored := *rel
	stored.UserA, stored.UserB = models.OrderedPair(rel.UserA, rel.UserB)
	s.b.st.relationships = append(s.b.st.relationships, stored)
	return nil
}

func (s relationshipStore) Remove(_ context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Relationship, error) {
	defer s.b.lock()()
	i := s.index(u1, u2, kind)
	if i < 0 {
		return nil, errors.Wrapf(apperr.ErrNotFound, "%s relationship %s/%s", kind, u1, u2)
	}
	rel := s.b.st.relationships[i]
	s.b.st.relationships = append(s.b.st.relationships[:i:i], s.b.st.relationships[i+1:]...)
	return &rel, nil
}

func (s relationshipStore) ListFor(_ context.Context, user uuid.UUID, kind models.Kind) ([]models.Relationship, error) {
	defer s.b.lock()()
	var out []models.Relationship
	for _, rel := range s.b.st.relationships {
		if rel.Involves(user) && (kind == "" || rel.Kind == kind) {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (s relationshipStore) RemoveAllFor(_ context.Context, user uuid.UUID) ([]models.Relationship, error) {
	defer s.b.lock()()
	var removed []models.Relationship
	kept := s.b.st.relationships[:0:0]
	for _, rel := range s.b.st.relationships {
		if rel.Involves(user) {
			removed = append(removed, rel)
		} else {
			kept = append(kept, rel)
		}
	}
	s.b.st.relationships = kept
	return removed, nil
}

type requestStore struct{ b *Backend }

func (s requestStore) pendingBetween(u1, u2 uuid.UUID, kind models.Kind) int {
	for i, req := range s.b.st.requests {
		if req.Status == models.RequestPending && req.Kind == kind && req.Between(u1, u2) {
			return i
		}
	}
	return -1
}

func (s requestStore) FindPending(_ context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Request, error) {
	defer s.b.lock()()
	i := s.pendingBetween(u1, u2, kind)
	if i < 0 {
		return nil, nil
	}
	req := s.b.st.requests[i]
	return &req, nil
}

func (s requestStore) Create(_ context.Context, req *models.Request) error {
	defer s.b.lock()()
	if req.Status == models.RequestPending && s.pendingBetween(req.From, req.To, req.Kind) >= 0 {
		return errors.Wrapf(apperr.ErrConflict, "pending %s request %s/%s", req.Kind, req.From, req.To)
	}
	s.b.st.requests = append(s.b.st.requests, *req)
	return nil
}

func (s requestStore) PopPending(_ context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	defer s.b.lock()()
	for i, req := range s.b.st.requests {
		if req.Status == models.RequestPending && req.Kind == kind && req.From == from && req.To == to {
			s.b.st.requests = append(s.b.st.requests[:i:i], s.b.st.requests[i+1:]...)
			return &req, nil
		}
	}
	return nil, errors.Wrapf(apperr.ErrNotFound, "pending %s request %s -> %s", kind, from, to)
}

func (s requestStore) ListFor(_ context.Context, user uuid.UUID, kind models.Kind) ([]models.Request, error) {
	defer s.b.lock()()
	var out []models.Request
	for _, req := range s.b.st.requests {
		if req.Involves(user) && (kind == "" || req.Kind == kind) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s requestStore) RemoveAllFor(_ context.Context, user uuid.UUID) ([]models.Request, error) {
	defer s.b.lock()()
	var removed []models.Request
	kept := s.b.st.requests[:0:0]
	for _, req := range s.b.st.requests {
		if req.Involves(user) {
			removed = append(removed, req)
		} else {
			kept = append(kept, req)
		}
	}
	s.b.st.requests = kept
	return removed, nil
}

type markStore struct{ b *Backend }

func (s markStore) index(c models.Collection, user uuid.UUID, t models.ItemType, itemID string) int {
	for i, m := range s.b.st.marks {
		if m.Collection == c && m.UserID == user && m.ItemType == t && m.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s markStore) Add(_ context.Context, mark *models.Mark) (bool, error) {
	defer s.b.lock()()
	if s.index(mark.Collection, mark.UserID, mark.ItemType, mark.ItemID) >= 0 {
		return false, nil
	}
	s.b.st.marks = append(s.b.st.marks, *mark)
	return true, nil
}

func (s markStore) Remove(_ context.Context, c models.Collection, user uuid.UUID, t models.ItemType, itemID string) (bool, error) {
	defer s.b.lock()()
	i := s.index(c, user, t, itemID)
	if i < 0 {
		return false, nil
	}
	s.b.st.marks = append(s.b.st.marks[:i:i], s.b.st.marks[i+1:]...)
	return true, nil
}

func (s markStore) List(_ context.Context, c models.Collection, user uuid.UUID, t models.ItemType) ([]models.Mark, error) {
	defer s.b.lock()()
	var out []models.Mark
	for _, m := range s.b.st.marks {
		if m.Collection == c && m.UserID == user && (t == "" || m.ItemType == t) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s markStore) Count(_ context.Context, c models.Collection, t models.ItemType, itemID string) (int64, error) {
	defer s.b.lock()()
	var n int64
	for _, m := range s.b.st.marks {
		if m.Collection == c && m.ItemType == t && m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (s markStore) RemoveAllFor(_ context.Context, user uuid.UUID) (int64, error) {
	defer s.b.lock()()
	var n int64
	kept := s.b.st.marks[:0:0]
	for _, m := range s.b.st.marks {
		if m.UserID == user {
			n++
		} else {
			kept = append(kept, m)
		}
	}
	s.b.st.marks = kept
	return n, nil
}
