package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/shared"
)

// Type classifies a notification for the client
type Type string

const (
	// TypeOrderUpdate tells a counterpart their order changed status
	TypeOrderUpdate Type = "order_update"
	// TypeNewOrder tells admins a new order was placed
	TypeNewOrder Type = "new_order"
)

// Replacements holds the placeholder values the client substitutes into
// the localized message template. Stored as a JSON column.
type Replacements map[string]string

// Value implements driver.Valuer for database storage
func (r Replacements) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(Replacements{})
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for database retrieval
func (r *Replacements) Scan(value interface{}) error {
	if value == nil {
		*r = Replacements{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into Replacements", value)
	}
}

// Notification is a per-recipient inbox entry. The text is not rendered
// server side, the client localizes MessageKey with Replacements.
type Notification struct {
	shared.BaseEntity
	RecipientID  uuid.UUID
	Type         Type
	MessageKey   string
	Replacements Replacements
	Link         string
	IsRead       bool
}

// New creates an unread notification for a recipient
func New(recipientID uuid.UUID, typ Type, messageKey string, replacements Replacements, link string) *Notification {
	return &Notification{
		BaseEntity:   shared.NewBaseEntity(),
		RecipientID:  recipientID,
		Type:         typ,
		MessageKey:   messageKey,
		Replacements: replacements,
		Link:         link,
		IsRead:       false,
	}
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.Touch()
}
