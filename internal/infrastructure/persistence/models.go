package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reuseday/backend/internal/domain/identity"
	"github.com/reuseday/backend/internal/domain/marketing"
	"github.com/reuseday/backend/internal/domain/notification"
	"github.com/reuseday/backend/internal/domain/order"
	"github.com/reuseday/backend/internal/domain/shared/valueobject"
)

// itemsColumn persists the immutable item snapshot as a JSON column
type itemsColumn []order.Item

func (c itemsColumn) Value() (driver.Value, error) {
	return json.Marshal([]order.Item(c))
}

func (c *itemsColumn) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into itemsColumn", value)
	}
}

// ratingColumn persists the buyer rating as a JSON column
type ratingColumn order.BuyerRating

func (c ratingColumn) Value() (driver.Value, error) {
	return json.Marshal(order.BuyerRating(c))
}

func (c *ratingColumn) Scan(value interface{}) error {
	if value == nil {
		*c = ratingColumn{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ratingColumn", value)
	}
}

// orderModel is the database representation of an order aggregate
type orderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Items       itemsColumn
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
	Address     valueobject.Address
	SellingMode string `gorm:"size:16;not null"`
	Status      string `gorm:"size:32;not null;index"`
	BuyerRating ratingColumn
	ShippedAt   *time.Time
	CompletedAt *time.Time
	Version     int `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (orderModel) TableName() string { return "orders" }

// ledgerEntryModel is one row of the per-user order index
type ledgerEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_owner"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_order"`
	Role      string    `gorm:"size:8;not null"`
	CreatedAt time.Time
}

func (ledgerEntryModel) TableName() string { return "order_ledger_entries" }

func toOrderModel(o *order.Order) *orderModel {
	return &orderModel{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		SellerID:    o.SellerID,
		Items:       itemsColumn(o.Items),
		TotalAmount: o.Total.Amount,
		Currency:    o.Total.Currency,
		Address:     o.Address,
		SellingMode: string(o.SellingMode),
		Status:      string(o.Status),
		BuyerRating: ratingColumn(o.BuyerRating),
		ShippedAt:   o.ShippedAt,
		CompletedAt: o.CompletedAt,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toDomainOrder(m *orderModel) *order.Order {
	o := &order.Order{
		BuyerID:     m.BuyerID,
		SellerID:    m.SellerID,
		Items:       []order.Item(m.Items),
		Total:       valueobject.NewMoney(m.TotalAmount, m.Currency),
		Address:     m.Address,
		SellingMode: order.SellingMode(m.SellingMode),
		Status:      order.Status(m.Status),
		BuyerRating: order.BuyerRating(m.BuyerRating),
		ShippedAt:   m.ShippedAt,
		CompletedAt: m.CompletedAt,
	}
	o.ID = m.ID
	o.Version = m.Version
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	return o
}

// discountCodeModel is the database representation of a discount code
type discountCodeModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Uniqueness is enforced case-insensitively by the migration's
	// UPPER(code) index, not by a column constraint.
	Code            string          `gorm:"size:64;not null"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	StartDate       *time.Time
	ExpiryDate      time.Time `gorm:"not null"`
	IsActive        bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (discountCodeModel) TableName() string { return "discount_codes" }

func toDiscountCodeModel(dc *marketing.DiscountCode) *discountCodeModel {
	return &discountCodeModel{
		ID:              dc.ID,
		Code:            dc.Code,
		DiscountPercent: dc.DiscountPercent,
		StartDate:       dc.StartDate,
		ExpiryDate:      dc.ExpiryDate,
		IsActive:        dc.IsActive,
		CreatedAt:       dc.CreatedAt,
		UpdatedAt:       dc.UpdatedAt,
	}
}

func toDomainDiscountCode(m *discountCodeModel) *marketing.DiscountCode {
	dc := &marketing.DiscountCode{
		Code:            m.Code,
		DiscountPercent: m.DiscountPercent,
		StartDate:       m.StartDate,
		ExpiryDate:      m.ExpiryDate,
		IsActive:        m.IsActive,
	}
	dc.ID = m.ID
	dc.CreatedAt = m.CreatedAt
	dc.UpdatedAt = m.UpdatedAt
	return dc
}

// notificationModel is the database representation of a notification
type notificationModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID  uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	Type         string    `gorm:"size:32;not null"`
	MessageKey   string    `gorm:"size:128;not null"`
	Replacements notification.Replacements
	Link         string `gorm:"size:255"`
	IsRead       bool   `gorm:"not null;default:false;index:idx_notifications_unread"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (notificationModel) TableName() string { return "notifications" }

func toNotificationModel(n *notification.Notification) *notificationModel {
	return &notificationModel{
		ID:           n.ID,
		RecipientID:  n.RecipientID,
		Type:         string(n.Type),
		MessageKey:   n.MessageKey,
		Replacements: n.Replacements,
		Link:         n.Link,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func toDomainNotification(m *notificationModel) *notification.Notification {
	n := &notification.Notification{
		RecipientID:  m.RecipientID,
		Type:         notification.Type(m.Type),
		MessageKey:   m.MessageKey,
		Replacements: m.Replacements,
		Link:         m.Link,
		IsRead:       m.IsRead,
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	n.UpdatedAt = m.UpdatedAt
	return n
}

// userModel is the database representation of a user account
type userModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"size:255;not null;uniqueIndex"`
	DisplayName   string    `gorm:"size:128"`
	Role          string    `gorm:"size:16;not null;default:'user';index"`
	SellerRatings identity.SellerRatings
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (userModel) TableName() string { return "users" }

func toUserModel(u *identity.User) *userModel {
	return &userModel{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          string(u.Role),
		SellerRatings: u.SellerRatings,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toDomainUser(m *userModel) *identity.User {
	u := &identity.User{
		Email:         m.Email,
		DisplayName:   m.DisplayName,
		Role:          identity.Role(m.Role),
		SellerRatings: m.SellerRatings,
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return u
}
