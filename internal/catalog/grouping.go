package catalog

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/pkg/imagery"
)

// OptionKV is the common (key, value) projection every stored option resolves
// to, whether it arrived by attribute-value reference or as a legacy literal.
type OptionKV struct {
	Key     string
	Value   string
	ValueID *uuid.UUID
}

// VariantRecord is the flat stored shape the inverse transform consumes.
type VariantRecord struct {
	ID             uuid.UUID
	SKU            string
	Color          string
	Size           string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	ImageURL       string
	Featured       bool
	Options        []OptionKV
}

// colorResolver is one step of the prioritized chain that determines which
// color bucket a stored variant belongs to. The chain is data, not nested
// conditionals, so the precedence stays visible and testable.
type colorResolver struct {
	name    string
	resolve func(VariantRecord) (string, bool)
}

var colorResolvers = []colorResolver{
	{
		name: "explicit",
		resolve: func(v VariantRecord) (string, bool) {
			color := strings.TrimSpace(v.Color)
			return color, color != ""
		},
	},
	{
		name: "options",
		resolve: func(v VariantRecord) (string, bool) {
			for _, opt := range v.Options {
				key := strings.ToLower(strings.TrimSpace(opt.Key))
				if key == "color" || key == "colour" {
					if value := strings.TrimSpace(opt.Value); value != "" {
						return value, true
					}
				}
			}
			return "", false
		},
	},
	{
		name: "sku",
		resolve: func(v VariantRecord) (string, bool) {
			color, _ := skuSegments(v.SKU)
			return color, color != ""
		},
	},
}

// ResolveColor walks the resolver chain and reports which step matched.
func ResolveColor(v VariantRecord) (color string, source string, ok bool) {
	for _, resolver := range colorResolvers {
		if value, matched := resolver.resolve(v); matched {
			return value, resolver.name, true
		}
	}
	return "", "", false
}

func resolveSize(v VariantRecord) string {
	if size := strings.TrimSpace(v.Size); size != "" {
		return size
	}
	for _, opt := range v.Options {
		if strings.ToLower(strings.TrimSpace(opt.Key)) == "size" {
			if value := strings.TrimSpace(opt.Value); value != "" {
				return value
			}
		}
	}
	_, size := skuSegments(v.SKU)
	return size
}

// skuSegments applies the legacy heuristic: split the SKU on "-" and treat
// the second segment as color when it is not purely numeric, the third as
// size.
func skuSegments(sku string) (color, size string) {
	parts := strings.Split(strings.TrimSpace(sku), "-")
	if len(parts) < 2 {
		return "", ""
	}
	candidate := strings.TrimSpace(parts[1])
	if candidate == "" || isNumeric(candidate) {
		return "", ""
	}
	color = candidate
	if len(parts) > 2 {
		size = strings.TrimSpace(parts[2])
	}
	return color, size
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// GroupVariants folds the flat stored variants back into per-color form
// groups. Merging is additive: image lists union under normalized URL
// equality, size lists union, and stocks for sizeless duplicates sum rather
// than overwrite. Variants with no determinable color land in the synthetic
// default bucket as colorless base stock.
func GroupVariants(variants []VariantRecord) []ColorGroup {
	type bucket struct {
		group  *ColorGroup
		synth  bool
		images []string
	}

	order := []string{}
	buckets := map[string]*bucket{}

	ensure := func(name string, synthetic bool) *bucket {
		key := strings.ToLower(name)
		if b, ok := buckets[key]; ok {
			return b
		}
		b := &bucket{
			group: &ColorGroup{
				Name:       name,
				Stock:      "",
				SizeStocks: map[string]string{},
				SizeSKUs:   map[string]string{},
			},
			synth: synthetic,
		}
		buckets[key] = b
		order = append(order, key)
		return b
	}

	for _, v := range variants {
		color, _, ok := ResolveColor(v)
		synthetic := false
		if !ok {
			color = DefaultColorName
			synthetic = true
		}
		b := ensure(color, synthetic)

		b.images = append(b.images, imagery.Split(v.ImageURL)...)

		if v.Featured {
			b.group.Featured = true
		}
		if b.group.Price == "" && !v.Price.IsZero() {
			b.group.Price = v.Price.String()
		}
		if b.group.CompareAtPrice == "" && v.CompareAtPrice != nil {
			b.group.CompareAtPrice = v.CompareAtPrice.String()
		}

		size := ""
		if !synthetic {
			size = resolveSize(v)
		}
		if size == "" {
			// Colorless or sizeless stock accumulates into the base scalar.
			b.group.Stock = addStock(b.group.Stock, v.Stock)
			continue
		}

		if !containsFold(b.group.Sizes, size) {
			b.group.Sizes = append(b.group.Sizes, size)
		}
		b.group.SizeStocks[size] = addStock(b.group.SizeStocks[size], v.Stock)
		if _, ok := b.group.SizeSKUs[size]; !ok && strings.TrimSpace(v.SKU) != "" {
			b.group.SizeSKUs[size] = v.SKU
		}
	}

	groups := make([]ColorGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		b.group.Images = imagery.Dedupe(b.images)
		groups = append(groups, *b.group)
	}
	return groups
}

func addStock(existing string, stock int) string {
	current := 0
	if trimmed := strings.TrimSpace(existing); trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil {
			current = parsed
		}
	}
	return strconv.Itoa(current + stock)
}

func containsFold(values []string, candidate string) bool {
	for _, v := range values {
		if strings.EqualFold(v, candidate) {
			return true
		}
	}
	return false
}
