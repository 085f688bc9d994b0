package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/imagery"
)

// ProductListFilters narrows the admin product listing.
type ProductListFilters struct {
	Search      string
	CategoryIDs []uuid.UUID
	SKU         string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Colors      []string
	Sizes       []string
	Brand       string
	Sort        string
}

// LabelInput is one storefront badge in a product submission.
type LabelInput struct {
	Text            string  `json:"text" validate:"required"`
	BackgroundColor *string `json:"backgroundColor"`
	TextColor       *string `json:"textColor"`
}

// SaveProductInput is the admin create/update payload. Variants arrive as the
// nested color-group form; explicit variant rows with IDs take precedence when
// present so the edit screen can patch a single variant without rebuilding.
type SaveProductInput struct {
	Title             string           `json:"title" validate:"required"`
	Slug              string           `json:"slug" validate:"required"`
	Description       *string          `json:"description"`
	Brand             *string          `json:"brand"`
	CategoryIDs       []uuid.UUID      `json:"categoryIds"`
	PrimaryCategoryID *uuid.UUID       `json:"primaryCategoryId"`
	Price             string           `json:"price" validate:"required"`
	CompareAtPrice    string           `json:"compareAtPrice"`
	BaseSKU           string           `json:"baseSku"`
	Published         bool             `json:"published"`
	Labels            []LabelInput     `json:"labels"`
	AttributeIDs      []uuid.UUID      `json:"attributeIds"`
	Colors            []ColorGroup     `json:"colors" validate:"required_without=Variants,dive"`
	Variants          []VariantInput   `json:"variants"`
}

// VariantInput is an explicit variant row edit. A nil ID means the row is
// matched to an existing variant by SKU or inserted fresh.
type VariantInput struct {
	ID             *uuid.UUID           `json:"id"`
	SKU            string               `json:"sku" validate:"required"`
	Color          string               `json:"color"`
	Size           string               `json:"size"`
	Price          string               `json:"price" validate:"required"`
	CompareAtPrice string               `json:"compareAtPrice"`
	Stock          int                  `json:"stock" validate:"gte=0"`
	Images         []string             `json:"images"`
	Published      *bool                `json:"published"`
	Featured       bool                 `json:"featured"`
	Options        []VariantOptionInput `json:"options"`
}

// VariantOptionInput attaches one extra attribute to a variant row, either by
// value reference or as a key/value literal.
type VariantOptionInput struct {
	Key     string     `json:"key"`
	Value   string     `json:"value"`
	ValueID *uuid.UUID `json:"valueId"`
}

// VariantDTO is one variant in admin responses.
type VariantDTO struct {
	ID             uuid.UUID        `json:"id"`
	SKU            string           `json:"sku"`
	Color          string           `json:"color,omitempty"`
	Size           string           `json:"size,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Stock          int              `json:"stock"`
	Images         []string         `json:"images"`
	Published      bool             `json:"published"`
	Featured       bool             `json:"featured"`
}

// LabelDTO is one badge in admin responses.
type LabelDTO struct {
	ID              uuid.UUID `json:"id"`
	Text            string    `json:"text"`
	BackgroundColor *string   `json:"backgroundColor,omitempty"`
	TextColor       *string   `json:"textColor,omitempty"`
}

// ProductSummary is one admin listing row.
type ProductSummary struct {
	ID           uuid.UUID        `json:"id"`
	Slug         string           `json:"slug"`
	Title        string           `json:"title"`
	Brand        *string          `json:"brand,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	CompareAt    *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Published    bool             `json:"published"`
	VariantCount int              `json:"variantCount"`
	TotalStock   int              `json:"totalStock"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ProductDetail is the full admin product view. Colors is the edit form
// reconstructed from the stored variants.
type ProductDetail struct {
	ID                uuid.UUID        `json:"id"`
	Slug              string           `json:"slug"`
	Title             string           `json:"title"`
	Description       *string          `json:"description,omitempty"`
	Brand             *string          `json:"brand,omitempty"`
	CategoryIDs       []uuid.UUID      `json:"categoryIds"`
	PrimaryCategoryID *uuid.UUID       `json:"primaryCategoryId,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compareAtPrice,omitempty"`
	BaseSKU           *string          `json:"baseSku,omitempty"`
	Published         bool             `json:"published"`
	Labels            []LabelDTO       `json:"labels"`
	AttributeIDs      []uuid.UUID      `json:"attributeIds"`
	Variants          []VariantDTO     `json:"variants"`
	Colors            []ColorGroup     `json:"colors"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// ProductListResult bundles one admin listing page with its total.
type ProductListResult struct {
	Products []ProductSummary
	Total    int64
}

// AttributeValueInput is one selectable value in an attribute submission.
type AttributeValueInput struct {
	ID       *uuid.UUID `json:"id"`
	Value    string     `json:"value" validate:"required"`
	Label    *string    `json:"label"`
	ImageURL *string    `json:"imageUrl"`
	Colors   []string   `json:"colors"`
	Position int        `json:"position"`
}

// SaveAttributeInput is the admin attribute create/update payload.
type SaveAttributeInput struct {
	Key      string                `json:"key" validate:"required"`
	Name     string                `json:"name" validate:"required"`
	Position int                   `json:"position"`
	Values   []AttributeValueInput `json:"values" validate:"dive"`
}

// AttributeValueDTO mirrors an attribute value in responses.
type AttributeValueDTO struct {
	ID       uuid.UUID `json:"id"`
	Value    string    `json:"value"`
	Label    *string   `json:"label,omitempty"`
	ImageURL *string   `json:"imageUrl,omitempty"`
	Colors   []string  `json:"colors,omitempty"`
	Position int       `json:"position"`
}

// AttributeDTO mirrors an attribute with its values in responses.
type AttributeDTO struct {
	ID       uuid.UUID           `json:"id"`
	Key      string              `json:"key"`
	Name     string              `json:"name"`
	Position int                 `json:"position"`
	Values   []AttributeValueDTO `json:"values"`
}

func NewVariantDTO(v models.ProductVariant) VariantDTO {
	dto := VariantDTO{
		ID:             v.ID,
		SKU:            v.SKU,
		Price:          v.Price,
		CompareAtPrice: v.CompareAtPrice,
		Stock:          v.Stock,
		Images:         imagery.Split(v.ImageURL),
		Published:      v.Published,
		Featured:       v.IsFeatured,
	}
	record := NewVariantRecord(v)
	if color, _, ok := ResolveColor(record); ok {
		dto.Color = color
	}
	dto.Size = resolveSize(record)
	return dto
}

func NewProductDetail(p *models.Product) *ProductDetail {
	detail := &ProductDetail{
		ID:                p.ID,
		Slug:              p.Slug,
		Title:             p.Title,
		Description:       p.Description,
		Brand:             p.Brand,
		CategoryIDs:       p.CategoryIDs,
		PrimaryCategoryID: p.PrimaryCategoryID,
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		BaseSKU:           p.BaseSKU,
		Published:         p.Published,
		Labels:            make([]LabelDTO, 0, len(p.Labels)),
		AttributeIDs:      make([]uuid.UUID, 0, len(p.AttributeLinks)),
		Variants:          make([]VariantDTO, 0, len(p.Variants)),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	for _, label := range p.Labels {
		detail.Labels = append(detail.Labels, LabelDTO{
			ID:              label.ID,
			Text:            label.Text,
			BackgroundColor: label.BackgroundColor,
			TextColor:       label.TextColor,
		})
	}
	for _, link := range p.AttributeLinks {
		detail.AttributeIDs = append(detail.AttributeIDs, link.AttributeID)
	}

	records := make([]VariantRecord, 0, len(p.Variants))
	for _, v := range p.Variants {
		detail.Variants = append(detail.Variants, NewVariantDTO(v))
		records = append(records, NewVariantRecord(v))
	}
	detail.Colors = GroupVariants(records)
	return detail
}

// NewVariantRecord projects a stored variant into the shape the inverse
// transform and the storefront matcher consume.
func NewVariantRecord(v models.ProductVariant) VariantRecord {
	record := VariantRecord{
		ID:             v.ID,
		SKU:            v.SKU,
		Price:          v.Price,
		CompareAtPrice: v.CompareAtPrice,
		Stock:          v.Stock,
		ImageURL:       v.ImageURL,
		Featured:       v.IsFeatured,
	}
	if raw, ok := v.Attributes["color"].(string); ok {
		record.Color = raw
	}
	if raw, ok := v.Attributes["size"].(string); ok {
		record.Size = raw
	}
	for _, opt := range v.Options {
		kv := OptionKV{ValueID: opt.AttributeValueID}
		if opt.AttributeKey != nil {
			kv.Key = *opt.AttributeKey
		}
		if opt.Value != nil {
			kv.Value = *opt.Value
		}
		if opt.AttributeValue != nil {
			if kv.Key == "" && opt.AttributeValue.Attribute != nil {
				kv.Key = opt.AttributeValue.Attribute.Key
			}
			if kv.Value == "" {
				kv.Value = opt.AttributeValue.Value
			}
		}
		record.Options = append(record.Options, kv)
	}
	return record
}

func newAttributeDTO(a models.Attribute) AttributeDTO {
	dto := AttributeDTO{
		ID:       a.ID,
		Key:      a.Key,
		Name:     a.Name,
		Position: a.Position,
		Values:   make([]AttributeValueDTO, 0, len(a.Values)),
	}
	for _, v := range a.Values {
		dto.Values = append(dto.Values, AttributeValueDTO{
			ID:       v.ID,
			Value:    v.Value,
			Label:    v.Label,
			ImageURL: v.ImageURL,
			Colors:   v.Colors,
			Position: v.Position,
		})
	}
	return dto
}
