package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem captures the snapshot of each line within an order. Total is the
// line total; unit price is always derived as Total / Quantity.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID    *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Variant      *ProductVariant `gorm:"foreignKey:VariantID"`
	ProductTitle string          `gorm:"column:product_title;not null"`
	SKU          string          `gorm:"column:sku;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
