// Package postgres implements store.Backend with gorm on PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"kinship/backend/internal/account"
	"kinship/backend/internal/apperr"
	"kinship/backend/internal/database"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/user"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Backend wraps a *gorm.DB. Inside InTx the DB is the transaction handle.
type Backend struct {
	db *gorm.DB
}

// New returns a Backend over db. The schema must already be migrated.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

var (
	_ relationship.Store = (*Backend)(nil)
	_ account.Store      = (*Backend)(nil)
)

// translate maps gorm sentinel errors onto the apperr families.
func translate(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrapf(apperr.ErrNotFound, format, args...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrapf(apperr.ErrConflict, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

// InTx runs fn inside a database transaction.
func (b *Backend) InTx(ctx context.Context, fn func(ctx context.Context, tx relationship.Store) error) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Backend{db: tx})
	})
}

// InAccountTx runs fn inside a database transaction.
func (b *Backend) InAccountTx(ctx context.Context, fn func(ctx context.Context, tx account.Tx) error) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Backend{db: tx})
	})
}

func (b *Backend) Users() user.Store                             { return userStore{b.db} }
func (b *Backend) Relationships() relationship.RelationshipStore { return relationshipStore{b.db} }
func (b *Backend) Requests() relationship.RequestStore           { return requestStore{b.db} }
func (b *Backend) Marks() favorite.Store                         { return markStore{b.db} }

// Close releases the connection pool.
func (b *Backend) Close(context.Context) error {
	return database.ClosePostgres(b.db)
}

type userStore struct{ db *gorm.DB }

func (s userStore) Create(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "creating user %q", u.Username)
}

func (s userStore) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user %s", id)
	}
	return &u, nil
}

func (s userStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, "user %q", username)
	}
	return &u, nil
}

func (s userStore) ByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err, "loading users")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s userStore) Search(ctx context.Context, q string) ([]models.User, error) {
	query := s.db.WithContext(ctx)
	if q != "" {
		query = query.Where("username ILIKE ?", "%"+likeEscaper.Replace(q)+"%")
	}
	var users []models.User
	err := query.Order("lower(username), username").Find(&users).Error
	return users, translate(err, "searching users")
}

func (s userStore) Update(ctx context.Context, u *models.User) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"updated_at":    u.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error, "updating user %s", u.ID)
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(apperr.ErrNotFound, "user %s", u.ID)
	}
	return nil
}

func (s userStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "deleting user %s", id)
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(apperr.ErrNotFound, "user %s", id)
	}
	return nil
}

type relationshipStore struct{ db *gorm.DB }

func pairQuery(db *gorm.DB, u1, u2 uuid.UUID, kind models.Kind) *gorm.DB {
	a, b := models.OrderedPair(u1, u2)
	return db.Where("user_a = ? AND user_b = ? AND kind = ?", a, b, kind)
}

func (s relationshipStore) Exists(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (bool, error) {
	var count int64
	err := pairQuery(s.db.WithContext(ctx).Model(&models.Relationship{}), u1, u2, kind).Count(&count).Error
	return count > 0, translate(err, "checking %s relationship", kind)
}

func (s relationshipStore) Create(ctx context.Context, rel *models.Relationship) error {
	rel.UserA, rel.UserB = models.OrderedPair(rel.UserA, rel.UserB)
	return translate(s.db.WithContext(ctx).Create(rel).Error, "creating %s relationship", rel.Kind)
}

func (s relationshipStore) Remove(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Relationship, error) {
	var deleted []models.Relationship
	result := pairQuery(s.db.WithContext(ctx).Clauses(clause.Returning{}), u1, u2, kind).Delete(&deleted)
	if result.Error != nil {
		return nil, translate(result.Error, "removing %s relationship", kind)
	}
	if result.RowsAffected == 0 || len(deleted) == 0 {
		return nil, errors.Wrapf(apperr.ErrNotFound, "%s relationship %s/%s", kind, u1, u2)
	}
	return &deleted[0], nil
}

func (s relationshipStore) ListFor(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Relationship, error) {
	query := s.db.WithContext(ctx).Where("(user_a = ? OR user_b = ?)", user, user)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	var rels []models.Relationship
	err := query.Order("created_at, id").Find(&rels).Error
	return rels, translate(err, "listing relationships")
}

func (s relationshipStore) RemoveAllFor(ctx context.Context, user uuid.UUID) ([]models.Relationship, error) {
	var deleted []models.Relationship
	err := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("user_a = ? OR user_b = ?", user, user).
		Delete(&deleted).Error
	return deleted, translate(err, "removing relationships of %s", user)
}

type requestStore struct{ db *gorm.DB }

func (s requestStore) FindPending(ctx context.Context, u1, u2 uuid.UUID, kind models.Kind) (*models.Request, error) {
	low, high := models.OrderedPair(u1, u2)
	var reqs []models.Request
	err := s.db.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ? AND kind = ? AND status = ?", low, high, kind, models.RequestPending).
		Limit(1).
		Find(&reqs).Error
	if err != nil {
		return nil, translate(err, "finding pending %s request", kind)
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0], nil
}

func (s requestStore) Create(ctx context.Context, req *models.Request) error {
	req.PairLow, req.PairHigh = models.OrderedPair(req.From, req.To)
	return translate(s.db.WithContext(ctx).Create(req).Error, "creating %s request", req.Kind)
}

// PopPending deletes with RETURNING so two concurrent pops cannot both win.
func (s requestStore) PopPending(ctx context.Context, from, to uuid.UUID, kind models.Kind) (*models.Request, error) {
	var deleted []models.Request
	result := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("from_user_id = ? AND to_user_id = ? AND kind = ? AND status = ?", from, to, kind, models.RequestPending).
		Delete(&deleted)
	if result.Error != nil {
		return nil, translate(result.Error, "popping pending %s request", kind)
	}
	if result.RowsAffected == 0 || len(deleted) == 0 {
		return nil, errors.Wrapf(apperr.ErrNotFound, "pending %s request %s -> %s", kind, from, to)
	}
	return &deleted[0], nil
}

func (s requestStore) ListFor(ctx context.Context, user uuid.UUID, kind models.Kind) ([]models.Request, error) {
	query := s.db.WithContext(ctx).Where("(from_user_id = ? OR to_user_id = ?)", user, user)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	var reqs []models.Request
	err := query.Order("created_at, id").Find(&reqs).Error
	return reqs, translate(err, "listing requests")
}

func (s requestStore) RemoveAllFor(ctx context.Context, user uuid.UUID) ([]models.Request, error) {
	var deleted []models.Request
	err := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("from_user_id = ? OR to_user_id = ?", user, user).
		Delete(&deleted).Error
	return deleted, translate(err, "removing requests of %s", user)
}

type markStore struct{ db *gorm.DB }

// Add relies on the unique index; a conflicting insert is a no-op.
func (s markStore) Add(ctx context.Context, mark *models.Mark) (bool, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(mark)
	if result.Error != nil {
		return false, translate(result.Error, "adding mark")
	}
	return result.RowsAffected > 0, nil
}

func (s markStore) Remove(ctx context.Context, c models.Collection, user uuid.UUID, t models.ItemType, itemID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND collection = ? AND item_type = ? AND item_id = ?", user, c, t, itemID).
		Delete(&models.Mark{})
	if result.Error != nil {
		return false, translate(result.Error, "removing mark")
	}
	return result.RowsAffected > 0, nil
}

func (s markStore) List(ctx context.Context, c models.Collection, user uuid.UUID, t models.ItemType) ([]models.Mark, error) {
	query := s.db.WithContext(ctx).Where("user_id = ? AND collection = ?", user, c)
	if t != "" {
		query = query.Where("item_type = ?", t)
	}
	var marks []models.Mark
	err := query.Order("created_at, id").Find(&marks).Error
	return marks, translate(err, "listing marks")
}

func (s markStore) Count(ctx context.Context, c models.Collection, t models.ItemType, itemID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Mark{}).
		Where("collection = ? AND item_type = ? AND item_id = ?", c, t, itemID).
		Count(&n).Error
	return n, translate(err, "counting marks")
}

func (s markStore) RemoveAllFor(ctx context.Context, user uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Where("user_id = ?", user).Delete(&models.Mark{})
	return result.RowsAffected, translate(result.Error, "removing marks of %s", user)
}
