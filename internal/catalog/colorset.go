package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/imagery"
)

// DefaultColorName buckets variants whose color cannot be determined. The
// bucket is a recovery path for legacy rows; every merge into it is additive.
const DefaultColorName = "default"

// ColorGroup is the admin editor's form representation of one color: its
// images, pricing overrides, and either per-size stocks or a single base
// stock. Stock values stay strings until validation because a blank form
// field and a zero are different things.
type ColorGroup struct {
	Name           string            `json:"name"`
	Images         []string          `json:"images"`
	Stock          string            `json:"stock"`
	Price          string            `json:"price,omitempty"`
	CompareAtPrice string            `json:"compareAtPrice,omitempty"`
	Sizes          []string          `json:"sizes"`
	SizeStocks     map[string]string `json:"sizeStocks,omitempty"`
	SizeSKUs       map[string]string `json:"sizeSkus,omitempty"`
	Featured       bool              `json:"featured"`
}

// VariantForm is the full nested form state submitted by the product editor.
type VariantForm struct {
	ProductSlug        string
	BaseSKU            string
	BasePrice          string
	BaseCompareAtPrice string
	RequiresSizes      bool
	Colors             []ColorGroup
}

// FlatVariant is one emitted (color, size?) record ready for upsert. ID and
// Published are carried only by explicit row edits; the form expansion leaves
// them unset.
type FlatVariant struct {
	ID             *uuid.UUID
	Color          string
	Size           string
	SKU            string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	Images         []string
	Published      *bool
	Featured       bool
	Options        []OptionKV
}

// BuildVariants expands the nested color/size form into the flat variant
// list. Validation failures abort the whole submission and report the first
// violation.
func BuildVariants(form VariantForm) ([]FlatVariant, error) {
	if len(form.Colors) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one color variant is required")
	}

	featuredIdx := -1
	for i, color := range form.Colors {
		if !color.Featured {
			continue
		}
		if featuredIdx >= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "only one color may be marked featured")
		}
		featuredIdx = i
	}
	if featuredIdx < 0 {
		for i, color := range form.Colors {
			if len(color.Images) > 0 {
				featuredIdx = i
				break
			}
		}
	}

	seenExplicit := map[string]int{}
	for ci, color := range form.Colors {
		for size, sku := range color.SizeSKUs {
			trimmed := strings.TrimSpace(sku)
			if trimmed == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("sku for size %q of color %q must not be blank", size, colorLabel(color, ci)))
			}
			key := strings.ToLower(trimmed)
			if _, dup := seenExplicit[key]; dup {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("duplicate sku %q in submission", trimmed))
			}
			seenExplicit[key] = ci
		}
	}

	for ci, color := range form.Colors {
		price, err := resolvePrice(color.Price, form.BasePrice)
		if err != nil || !price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("color %q requires a price greater than zero", colorLabel(color, ci)))
		}

		if form.RequiresSizes {
			if len(color.Sizes) == 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("color %q requires at least one size", colorLabel(color, ci)))
			}
			for _, size := range color.Sizes {
				if _, err := resolveSizeStock(color, size); err != nil {
					return nil, err
				}
			}
		} else if len(color.Sizes) == 0 {
			if _, err := parseStock(color.Stock, fmt.Sprintf("color %q", colorLabel(color, ci))); err != nil {
				return nil, err
			}
		} else {
			for _, size := range color.Sizes {
				if _, err := resolveSizeStock(color, size); err != nil {
					return nil, err
				}
			}
		}
	}

	multi := len(form.Colors) > 1
	for _, color := range form.Colors {
		if len(color.Sizes) > 1 {
			multi = true
		}
	}

	variants := make([]FlatVariant, 0, len(form.Colors))
	for ci, color := range form.Colors {
		price, _ := resolvePrice(color.Price, form.BasePrice)
		compareAt := resolveCompareAt(color.CompareAtPrice, form.BaseCompareAtPrice)
		images := imagery.Dedupe(color.Images)
		featured := ci == featuredIdx

		if len(color.Sizes) == 0 {
			stock, _ := parseStock(color.Stock, "")
			variants = append(variants, FlatVariant{
				Color:          strings.TrimSpace(color.Name),
				SKU:            assignSKU(form, color, ci, 0, "", multi),
				Price:          price,
				CompareAtPrice: compareAt,
				Stock:          stock,
				Images:         images,
				Featured:       featured,
			})
			continue
		}

		for si, size := range color.Sizes {
			stock, _ := resolveSizeStock(color, size)
			variants = append(variants, FlatVariant{
				Color:          strings.TrimSpace(color.Name),
				Size:           strings.TrimSpace(size),
				SKU:            assignSKU(form, color, ci, si, size, multi),
				Price:          price,
				CompareAtPrice: compareAt,
				Stock:          stock,
				Images:         images,
				Featured:       featured,
			})
		}
	}

	ensureUniqueSKUs(variants)

	hasColor := false
	hasSize := false
	for _, v := range variants {
		if v.Color != "" {
			hasColor = true
		}
		if v.Size != "" {
			hasSize = true
		}
	}
	if !hasColor {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant must carry a color")
	}
	if form.RequiresSizes && !hasSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant must carry a size")
	}

	return variants, nil
}

func colorLabel(color ColorGroup, idx int) string {
	if name := strings.TrimSpace(color.Name); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", idx+1)
}

func resolvePrice(override, base string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(override)
	if raw == "" {
		raw = strings.TrimSpace(base)
	}
	if raw == "" {
		return decimal.Zero, fmt.Errorf("price missing")
	}
	return decimal.NewFromString(raw)
}

func resolveCompareAt(override, base string) *decimal.Decimal {
	raw := strings.TrimSpace(override)
	if raw == "" {
		raw = strings.TrimSpace(base)
	}
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}

// resolveSizeStock returns the stock for one (color, size) pair. A size key
// that is present but blank is a validation error, never a silent zero; the
// color's base stock applies only when the size has no entry at all.
func resolveSizeStock(color ColorGroup, size string) (int, error) {
	if raw, ok := color.SizeStocks[size]; ok {
		return parseStock(raw, fmt.Sprintf("size %q of color %q", size, strings.TrimSpace(color.Name)))
	}
	return parseStock(color.Stock, fmt.Sprintf("size %q of color %q", size, strings.TrimSpace(color.Name)))
}

func parseStock(raw, subject string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("stock for %s must not be blank", subjectOrColor(subject)))
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("stock for %s must be a non-negative number", subjectOrColor(subject)))
	}
	return value, nil
}

func subjectOrColor(subject string) string {
	if subject == "" {
		return "variant"
	}
	return subject
}

func assignSKU(form VariantForm, color ColorGroup, colorIdx, sizeIdx int, size string, multi bool) string {
	if size != "" {
		if sku := strings.TrimSpace(color.SizeSKUs[size]); sku != "" {
			return sku
		}
	}
	if base := strings.TrimSpace(form.BaseSKU); base != "" {
		if multi {
			return fmt.Sprintf("%s-%d-%d", base, colorIdx+1, sizeIdx+1)
		}
		return base
	}
	slug := strings.ToUpper(strings.TrimSpace(form.ProductSlug))
	if slug == "" {
		slug = "VARIANT"
	}
	return fmt.Sprintf("%s-%d-%d-%d", slug, time.Now().UnixMilli(), colorIdx, sizeIdx)
}

// ensureUniqueSKUs appends a random suffix on collision within the batch.
func ensureUniqueSKUs(variants []FlatVariant) {
	seen := make(map[string]struct{}, len(variants))
	for i := range variants {
		key := strings.ToLower(strings.TrimSpace(variants[i].SKU))
		if _, dup := seen[key]; dup {
			suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
			variants[i].SKU = fmt.Sprintf("%s-%s", variants[i].SKU, suffix)
			key = strings.ToLower(variants[i].SKU)
		}
		seen[key] = struct{}{}
	}
}
