package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColorPrefersExplicitField(t *testing.T) {
	v := VariantRecord{
		Color: "Midnight",
		Options: []OptionKV{
			{Key: "color", Value: "Blue"},
		},
		SKU: "TEE-RED-S",
	}

	color, source, ok := ResolveColor(v)
	require.True(t, ok)
	assert.Equal(t, "Midnight", color)
	assert.Equal(t, "explicit", source)
}

func TestResolveColorFallsBackToOptions(t *testing.T) {
	v := VariantRecord{
		Options: []OptionKV{
			{Key: "Colour", Value: "Ecru"},
		},
	}
	color, source, ok := ResolveColor(v)
	require.True(t, ok)
	assert.Equal(t, "Ecru", color)
	assert.Equal(t, "options", source)
}

func TestResolveColorReadsSKUSegments(t *testing.T) {
	color, source, ok := ResolveColor(VariantRecord{SKU: "COAT-CAMEL-M"})
	require.True(t, ok)
	assert.Equal(t, "CAMEL", color)
	assert.Equal(t, "sku", source)

	// A numeric second segment is an index, not a color name.
	_, _, ok = ResolveColor(VariantRecord{SKU: "COAT-1-2"})
	assert.False(t, ok)
}

func TestGroupVariantsMergesImagesAndStock(t *testing.T) {
	variants := []VariantRecord{
		{SKU: "TEE-BLACK-S", Color: "Black", Size: "S", Stock: 4, ImageURL: "/black-front.jpg,/black-back.jpg"},
		{SKU: "TEE-BLACK-M", Color: "black", Size: "M", Stock: 6, ImageURL: "black-front.jpg"},
	}

	groups := GroupVariants(variants)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "Black", g.Name)
	// The duplicate front shot differs only by a leading slash; the first
	// occurrence's form survives.
	assert.Equal(t, []string{"/black-front.jpg", "/black-back.jpg"}, g.Images)
	assert.ElementsMatch(t, []string{"S", "M"}, g.Sizes)
	assert.Equal(t, "4", g.SizeStocks["S"])
	assert.Equal(t, "6", g.SizeStocks["M"])
	assert.Equal(t, "TEE-BLACK-S", g.SizeSKUs["S"])
}

func TestGroupVariantsSumsSizelessStockIntoBase(t *testing.T) {
	variants := []VariantRecord{
		{SKU: "A", Color: "Sand", Stock: 3},
		{SKU: "B", Color: "Sand", Stock: 5},
	}
	groups := GroupVariants(variants)
	require.Len(t, groups, 1)
	assert.Equal(t, "8", groups[0].Stock)
	assert.Empty(t, groups[0].Sizes)
}

func TestGroupVariantsUnresolvableColorLandsInDefaultBucket(t *testing.T) {
	variants := []VariantRecord{
		{SKU: "SCARF-1", Stock: 7},
	}
	groups := GroupVariants(variants)
	require.Len(t, groups, 1)
	assert.Equal(t, DefaultColorName, groups[0].Name)
	assert.Equal(t, "7", groups[0].Stock)
}

func TestGroupVariantsPreservesFirstSeenOrder(t *testing.T) {
	variants := []VariantRecord{
		{SKU: "X-IVORY-S", Color: "Ivory", Size: "S", Stock: 1},
		{SKU: "X-OLIVE-S", Color: "Olive", Size: "S", Stock: 1},
		{SKU: "X-IVORY-M", Color: "Ivory", Size: "M", Stock: 1},
	}
	groups := GroupVariants(variants)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ivory", groups[0].Name)
	assert.Equal(t, "Olive", groups[1].Name)
}

func TestGroupVariantsCarriesFeaturedFlag(t *testing.T) {
	variants := []VariantRecord{
		{SKU: "A", Color: "Plum", Stock: 1},
		{SKU: "B", Color: "Plum", Stock: 1, Featured: true},
	}
	groups := GroupVariants(variants)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Featured)
}
