package models

import (
	"fmt"
	"time"

	"kinship/backend/internal/apperr"

	"github.com/google/uuid"
)

// Collection names a per-user set of marked items.
type Collection string

const (
	CollectionFavorites Collection = "favorites"
	CollectionLikes     Collection = "likes"
)

// ItemType is the kind of entity a mark points at.
type ItemType string

const (
	ItemPost  ItemType = "post"
	ItemReply ItemType = "reply"
)

// ParseItemType converts a wire value into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case ItemPost, ItemReply:
		return t, nil
	}
	return "", apperr.Invalid(fmt.Sprintf("unknown item type %q", s))
}

// Mark records that a user put one item into one of their collections.
// The item itself is owned by another service; ItemID is opaque here.
type Mark struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_mark,priority:1"`
	Collection Collection `gorm:"type:varchar(20);not null;uniqueIndex:idx_mark,priority:2;index:idx_mark_item,priority:1"`
	ItemType   ItemType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_mark,priority:3;index:idx_mark_item,priority:2"`
	ItemID     string     `gorm:"size:64;not null;uniqueIndex:idx_mark,priority:4;index:idx_mark_item,priority:3"`
	CreatedAt  time.Time
}
