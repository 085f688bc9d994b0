package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/pkg/enums"
)

// OrderPayment records a payment attempt against an order; written by the
// external checkout flow and read-only in this service.
type OrderPayment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Provider  string              `gorm:"column:provider;not null"`
	Reference *string             `gorm:"column:reference"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status    enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
