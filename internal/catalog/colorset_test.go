package catalog

import (
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
)

func TestBuildVariantsSizelessColorEmitsOneVariant(t *testing.T) {
	form := VariantForm{
		ProductSlug: "silk-scarf",
		BaseSKU:     "SCARF",
		BasePrice:   "49.90",
		Colors: []ColorGroup{
			{Name: "Burgundy", Stock: "12", Images: []string{"/burgundy.jpg"}},
		},
	}

	variants, err := BuildVariants(form)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "Burgundy", variants[0].Color)
	assert.Empty(t, variants[0].Size)
	assert.Equal(t, 12, variants[0].Stock)
	assert.Equal(t, "SCARF", variants[0].SKU)
	assert.True(t, variants[0].Price.Equal(decimal.RequireFromString("49.90")))
}

func TestBuildVariantsExpandsSizes(t *testing.T) {
	form := VariantForm{
		BaseSKU:       "DRESS",
		BasePrice:     "120",
		RequiresSizes: true,
		Colors: []ColorGroup{
			{
				Name:       "Black",
				Stock:      "3",
				Sizes:      []string{"S", "M", "L"},
				SizeStocks: map[string]string{"S": "5", "M": "0"},
			},
		},
	}

	variants, err := BuildVariants(form)
	require.NoError(t, err)
	require.Len(t, variants, 3)

	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	// S=5, M=0, L falls back to the color's base stock of 3.
	assert.Equal(t, 8, total)
	assert.Equal(t, "DRESS-1-1", variants[0].SKU)
	assert.Equal(t, "DRESS-1-2", variants[1].SKU)
	assert.Equal(t, "DRESS-1-3", variants[2].SKU)
}

func TestBuildVariantsBlankSizeStockIsError(t *testing.T) {
	form := VariantForm{
		BaseSKU:       "DRESS",
		BasePrice:     "120",
		RequiresSizes: true,
		Colors: []ColorGroup{
			{
				Name:       "Black",
				Stock:      "3",
				Sizes:      []string{"S"},
				SizeStocks: map[string]string{"S": ""},
			},
		},
	}

	_, err := BuildVariants(form)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestBuildVariantsRequiresAtLeastOneColor(t *testing.T) {
	_, err := BuildVariants(VariantForm{BasePrice: "10"})
	require.Error(t, err)
}

func TestBuildVariantsRequiresPositivePrice(t *testing.T) {
	form := VariantForm{
		Colors: []ColorGroup{{Name: "Red", Stock: "1"}},
	}
	_, err := BuildVariants(form)
	require.Error(t, err)

	form.BasePrice = "0"
	_, err = BuildVariants(form)
	require.Error(t, err)
}

func TestBuildVariantsRequiresSizesWhenCategoryDemandsThem(t *testing.T) {
	form := VariantForm{
		BasePrice:     "30",
		RequiresSizes: true,
		Colors:        []ColorGroup{{Name: "Red", Stock: "4"}},
	}
	_, err := BuildVariants(form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size")
}

func TestBuildVariantsColorPriceOverride(t *testing.T) {
	form := VariantForm{
		BaseSKU:   "TEE",
		BasePrice: "25",
		Colors: []ColorGroup{
			{Name: "White", Stock: "10"},
			{Name: "Limited Gold", Stock: "2", Price: "40"},
		},
	}

	variants, err := BuildVariants(form)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.True(t, variants[0].Price.Equal(decimal.NewFromInt(25)))
	assert.True(t, variants[1].Price.Equal(decimal.NewFromInt(40)))
}

func TestBuildVariantsCollidingSKUsGetSuffixed(t *testing.T) {
	// The explicit override on Red matches the pattern the generator will
	// produce for Blue; the batch pass must still end up with distinct SKUs.
	form := VariantForm{
		BaseSKU:   "TEE",
		BasePrice: "15",
		Colors: []ColorGroup{
			{Name: "Red", Sizes: []string{"S"}, SizeStocks: map[string]string{"S": "1"}, SizeSKUs: map[string]string{"S": "TEE-2-1"}},
			{Name: "Blue", Sizes: []string{"S"}, SizeStocks: map[string]string{"S": "1"}},
		},
	}

	variants, err := BuildVariants(form)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "TEE-2-1", variants[0].SKU)
	assert.NotEqual(t, strings.ToLower(variants[0].SKU), strings.ToLower(variants[1].SKU))
	assert.True(t, strings.HasPrefix(variants[1].SKU, "TEE-2-1-"))
}

func TestBuildVariantsDuplicateExplicitSKUsRejected(t *testing.T) {
	form := VariantForm{
		BasePrice: "15",
		Colors: []ColorGroup{
			{Name: "Red", Sizes: []string{"S"}, SizeStocks: map[string]string{"S": "1"}, SizeSKUs: map[string]string{"S": "TEE-R"}},
			{Name: "Blue", Sizes: []string{"S"}, SizeStocks: map[string]string{"S": "1"}, SizeSKUs: map[string]string{"S": "tee-r"}},
		},
	}
	_, err := BuildVariants(form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate sku")
}

func TestBuildVariantsFeaturedConvention(t *testing.T) {
	form := VariantForm{
		BaseSKU:   "COAT",
		BasePrice: "200",
		Colors: []ColorGroup{
			{Name: "Navy", Stock: "1"},
			{Name: "Camel", Stock: "1", Images: []string{"/camel.jpg"}},
		},
	}

	variants, err := BuildVariants(form)
	require.NoError(t, err)
	// No color marked featured: the first color owning images wins.
	assert.False(t, variants[0].Featured)
	assert.True(t, variants[1].Featured)
}

func TestBuildVariantsRejectsTwoFeaturedColors(t *testing.T) {
	form := VariantForm{
		BasePrice: "20",
		Colors: []ColorGroup{
			{Name: "A", Stock: "1", Featured: true},
			{Name: "B", Stock: "1", Featured: true},
		},
	}
	_, err := BuildVariants(form)
	require.Error(t, err)
}

func TestRoundTripPreservesColorSizeStockTriples(t *testing.T) {
	form := VariantForm{
		BaseSKU:       "KNIT",
		BasePrice:     "80",
		RequiresSizes: true,
		Colors: []ColorGroup{
			{
				Name:       "Forest",
				Stock:      "0",
				Sizes:      []string{"S", "M"},
				SizeStocks: map[string]string{"S": "4", "M": "6"},
				Images:     []string{"/forest-1.jpg", "/forest-2.jpg"},
			},
			{
				Name:       "Rust",
				Stock:      "0",
				Sizes:      []string{"M"},
				SizeStocks: map[string]string{"M": "2"},
			},
		},
	}

	flat, err := BuildVariants(form)
	require.NoError(t, err)

	records := make([]VariantRecord, 0, len(flat))
	for _, v := range flat {
		records = append(records, VariantRecord{
			SKU:      v.SKU,
			Color:    v.Color,
			Size:     v.Size,
			Price:    v.Price,
			Stock:    v.Stock,
			ImageURL: strings.Join(v.Images, ","),
			Featured: v.Featured,
		})
	}

	groups := GroupVariants(records)
	require.Len(t, groups, 2)

	type triple struct {
		color, size string
		stock       int
	}
	want := []triple{
		{"Forest", "S", 4},
		{"Forest", "M", 6},
		{"Rust", "M", 2},
	}
	got := []triple{}
	for _, g := range groups {
		for _, size := range g.Sizes {
			stock := 0
			if raw := g.SizeStocks[size]; raw != "" {
				var err error
				stock, err = parseStock(raw, "")
				require.NoError(t, err)
			}
			got = append(got, triple{g.Name, size, stock})
		}
	}

	sortTriples := func(ts []triple) {
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].color != ts[j].color {
				return ts[i].color < ts[j].color
			}
			return ts[i].size < ts[j].size
		})
	}
	sortTriples(want)
	sortTriples(got)
	assert.Equal(t, want, got)
}
