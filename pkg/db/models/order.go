package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/pkg/enums"
)

// Order is a customer order as written by the checkout flow. The monetary
// fields are independently stored; update logic never recomputes Total from
// the parts.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number            string                  `gorm:"column:number;uniqueIndex;not null"`
	Status            enums.OrderStatus       `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;not null;default:'pending'"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;not null;default:'unfulfilled'"`
	Currency          enums.Currency          `gorm:"column:currency;not null;default:'USD'"`
	Subtotal          decimal.Decimal         `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount    decimal.Decimal         `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount    decimal.Decimal         `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount         decimal.Decimal         `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	Total             decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null"`
	CustomerEmail     string                  `gorm:"column:customer_email;not null;index"`
	CustomerPhone     *string                 `gorm:"column:customer_phone"`
	UserID            *uuid.UUID              `gorm:"column:user_id;type:uuid;index"`
	User              *User                   `gorm:"foreignKey:UserID"`
	PaidAt            *time.Time              `gorm:"column:paid_at"`
	FulfilledAt       *time.Time              `gorm:"column:fulfilled_at"`
	CancelledAt       *time.Time              `gorm:"column:cancelled_at"`
	Items             []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments          []OrderPayment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Events            []OrderEvent            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
