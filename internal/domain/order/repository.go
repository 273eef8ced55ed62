package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists order aggregates together with their ledger entries
type Repository interface {
	// Save stores a new order and its ledger entries in one transaction
	Save(ctx context.Context, o *Order) error
	// SaveWithLock updates an existing order using optimistic locking
	SaveWithLock(ctx context.Context, o *Order) error
	// FindByID loads an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindForUser returns all orders appearing in the user's ledger,
	// newest first
	FindForUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
	// FindRoleForUser returns the role under which the user holds the
	// order in their ledger
	FindRoleForUser(ctx context.Context, userID, orderID uuid.UUID) (Role, error)
	// FindAll returns every order, newest first. Admin use only.
	FindAll(ctx context.Context) ([]*Order, error)
}
