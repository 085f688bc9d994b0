package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/solenne-shop/solenne-backend/pkg/db/types"
)

// Product represents the canonical catalog listing.
type Product struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug              string             `gorm:"column:slug;uniqueIndex;not null"`
	Title             string             `gorm:"column:title;not null"`
	Description       *string            `gorm:"column:description"`
	Brand             *string            `gorm:"column:brand"`
	CategoryIDs       dbtypes.UUIDArray  `gorm:"column:category_ids;type:uuid[];not null;default:'{}'"`
	PrimaryCategoryID *uuid.UUID         `gorm:"column:primary_category_id;type:uuid"`
	Price             decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice    *decimal.Decimal   `gorm:"column:compare_at_price;type:numeric(12,2)"`
	BaseSKU           *string            `gorm:"column:base_sku"`
	Published         bool               `gorm:"column:published;not null;default:false"`
	Variants          []ProductVariant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Labels            []ProductLabel     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AttributeLinks    []ProductAttribute `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductLabel is a storefront badge attached to a product.
type ProductLabel struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Text            string    `gorm:"column:text;not null"`
	BackgroundColor *string   `gorm:"column:background_color"`
	TextColor       *string   `gorm:"column:text_color"`
	Position        int       `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductAttribute links a product to an attribute axis that applies to it.
type ProductAttribute struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_attribute"`
	AttributeID uuid.UUID `gorm:"column:attribute_id;type:uuid;not null;uniqueIndex:idx_product_attribute"`
	Attribute   *Attribute
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
