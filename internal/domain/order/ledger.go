package order

import (
	"time"

	"github.com/google/uuid"
)

// Role describes in which capacity a user is attached to an order
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// LedgerEntry is a row in the per-user order index. The order row itself
// is authoritative, ledger entries only say whose order list it shows
// up in and in which role.
type LedgerEntry struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	OrderID   uuid.UUID
	Role      Role
	CreatedAt time.Time
}
