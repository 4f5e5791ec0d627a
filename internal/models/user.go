package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account. Only the identity fields live here; the
// relationship engine never reads anything but the ID.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:32;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
