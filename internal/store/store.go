// Package store declares the Backend every storage driver provides.
package store

import (
	"context"

	"kinship/backend/internal/account"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/user"
)

// Backend bundles the stores of one storage driver.
type Backend interface {
	relationship.Store
	account.Store
	Users() user.Store
	Marks() favorite.Store
	Close(ctx context.Context) error
}
