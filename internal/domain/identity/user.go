package identity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/shared"
)

// Role distinguishes regular marketplace users from administrators
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SellerRating is one rating a buyer left on a completed order
type SellerRating struct {
	OrderID uuid.UUID `json:"order_id"`
	RaterID uuid.UUID `json:"rater_id"`
	Stars   int       `json:"stars"`
	Comment string    `json:"comment,omitempty"`
	RatedAt time.Time `json:"rated_at"`
}

// SellerRatings is stored as a JSON column on the user row
type SellerRatings []SellerRating

// Value implements driver.Valuer for database storage
func (r SellerRatings) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(SellerRatings{})
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for database retrieval
func (r *SellerRatings) Scan(value interface{}) error {
	if value == nil {
		*r = SellerRatings{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into SellerRatings", value)
	}
}

// User is the minimal account record the order and notification flows
// need. Registration and profile management live elsewhere.
type User struct {
	shared.BaseEntity
	Email         string
	DisplayName   string
	Role          Role
	SellerRatings SellerRatings
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AddSellerRating appends a rating received as a seller. An order can
// contribute at most one rating.
func (u *User) AddSellerRating(rating SellerRating) error {
	for _, existing := range u.SellerRatings {
		if existing.OrderID == rating.OrderID {
			return shared.NewDomainError("ALREADY_RATED", "Order has already been rated")
		}
	}
	u.SellerRatings = append(u.SellerRatings, rating)
	u.Touch()
	return nil
}

// AverageRating returns the mean of all received stars, zero when unrated
func (u *User) AverageRating() float64 {
	if len(u.SellerRatings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range u.SellerRatings {
		sum += r.Stars
	}
	return float64(sum) / float64(len(u.SellerRatings))
}
