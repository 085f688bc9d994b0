package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/pkg/types"
)

// ProductVariant is one sellable SKU of a product. ImageURL holds a
// comma-joined list of URLs and data URIs; pkg/imagery owns the codec.
type ProductVariant struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID              `gorm:"column:product_id;type:uuid;not null;index"`
	SKU            string                 `gorm:"column:sku;uniqueIndex;not null"`
	Price          decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal       `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Stock          int                    `gorm:"column:stock;not null;default:0"`
	ImageURL       string                 `gorm:"column:image_url;not null;default:''"`
	Published      bool                   `gorm:"column:published;not null;default:true"`
	IsFeatured     bool                   `gorm:"column:is_featured;not null;default:false"`
	Attributes     types.JSONMap          `gorm:"column:attributes;type:jsonb;serializer:json"`
	Options        []ProductVariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariantOption links a variant to one attribute value. New rows carry
// AttributeValueID; legacy rows store the attribute key and value literally
// with no value reference. A variant may hold several options for the same
// attribute key.
type ProductVariantOption struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID        uuid.UUID       `gorm:"column:variant_id;type:uuid;not null;index"`
	AttributeValueID *uuid.UUID      `gorm:"column:attribute_value_id;type:uuid"`
	AttributeValue   *AttributeValue `gorm:"foreignKey:AttributeValueID"`
	AttributeKey     *string         `gorm:"column:attribute_key"`
	Value            *string         `gorm:"column:value"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
