package storefront

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/internal/catalog"
	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
	"github.com/solenne-shop/solenne-backend/pkg/types"
)

func setupStorefrontTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT,
  brand TEXT,
  category_ids TEXT NOT NULL DEFAULT '{}',
  primary_category_id TEXT,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  base_sku TEXT,
  published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_labels (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  text TEXT NOT NULL,
  background_color TEXT,
  text_color TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_attributes (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  attribute_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT '',
  published INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  attributes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variant_options (
  id TEXT PRIMARY KEY,
  variant_id TEXT NOT NULL,
  attribute_value_id TEXT,
  attribute_key TEXT,
  value TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS attribute_values (
  id TEXT PRIMARY KEY,
  attribute_id TEXT NOT NULL,
  value TEXT NOT NULL,
  label TEXT,
  image_url TEXT,
  colors TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS attributes (
  id TEXT PRIMARY KEY,
  key TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newStorefrontTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "storefront-test", Output: io.Discard})
	svc, err := NewService(catalog.NewRepository(conn), logg)
	require.NoError(t, err)
	return svc
}

func seedStorefrontProduct(t *testing.T, conn *gorm.DB, slug string, published bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Slug:      slug,
		Title:     "Test " + slug,
		Price:     decimal.NewFromInt(120),
		Published: published,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func seedStorefrontVariant(t *testing.T, conn *gorm.DB, productID uuid.UUID, sku string, stock int, attrs map[string]any) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ID:         uuid.New(),
		ProductID:  productID,
		SKU:        sku,
		Price:      decimal.NewFromInt(120),
		Stock:      stock,
		Attributes: types.JSONMap(attrs),
	}
	require.NoError(t, conn.Create(variant).Error)
	return variant
}

func TestListProductsHidesDrafts(t *testing.T) {
	conn := setupStorefrontTestDB(t)
	svc := newStorefrontTestService(t, conn)
	ctx := context.Background()

	live := seedStorefrontProduct(t, conn, "linen-shirt", true)
	seedStorefrontVariant(t, conn, live.ID, "LINEN-1", 3, map[string]any{"color": "White"})
	seedStorefrontProduct(t, conn, "unreleased-coat", false)

	result, err := svc.ListProducts(ctx, pagination.Params{Page: 1, Limit: 20}, catalog.ProductListFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "linen-shirt", result.Products[0].Slug)
}

func TestGetProductRejectsUnpublished(t *testing.T) {
	conn := setupStorefrontTestDB(t)
	svc := newStorefrontTestService(t, conn)
	ctx := context.Background()

	seedStorefrontProduct(t, conn, "unreleased-coat", false)

	_, err := svc.GetProduct(ctx, "unreleased-coat")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.GetProduct(ctx, "never-existed")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetProductReturnsDetailWithColorGroups(t *testing.T) {
	conn := setupStorefrontTestDB(t)
	svc := newStorefrontTestService(t, conn)
	ctx := context.Background()

	product := seedStorefrontProduct(t, conn, "wool-coat", true)
	seedStorefrontVariant(t, conn, product.ID, "COAT-NAVY-S", 2, map[string]any{"color": "Navy", "size": "S"})
	seedStorefrontVariant(t, conn, product.ID, "COAT-NAVY-M", 3, map[string]any{"color": "Navy", "size": "M"})
	seedStorefrontVariant(t, conn, product.ID, "COAT-CAMEL-M", 1, map[string]any{"color": "Camel", "size": "M"})

	detail, err := svc.GetProduct(ctx, "wool-coat")
	require.NoError(t, err)
	assert.Len(t, detail.Variants, 3)
	require.Len(t, detail.Colors, 2)

	var names []string
	var navy *catalog.ColorGroup
	for i := range detail.Colors {
		names = append(names, detail.Colors[i].Name)
		if detail.Colors[i].Name == "Navy" {
			navy = &detail.Colors[i]
		}
	}
	assert.ElementsMatch(t, []string{"Navy", "Camel"}, names)
	require.NotNil(t, navy)
	assert.ElementsMatch(t, []string{"S", "M"}, navy.Sizes)
}

func TestMatchReturnsVariantAndAvailability(t *testing.T) {
	conn := setupStorefrontTestDB(t)
	svc := newStorefrontTestService(t, conn)
	ctx := context.Background()

	product := seedStorefrontProduct(t, conn, "wool-coat", true)
	navy := seedStorefrontVariant(t, conn, product.ID, "COAT-NAVY-M", 3, map[string]any{"color": "Navy", "size": "M"})
	navy.ImageURL = "/navy.jpg"
	require.NoError(t, conn.Save(navy).Error)
	seedStorefrontVariant(t, conn, product.ID, "COAT-CAMEL-M", 5, map[string]any{"color": "Camel", "size": "M"})

	result, err := svc.Match(ctx, "wool-coat", MatchInput{Values: map[string]string{"color": "navy", "size": "m"}})
	require.NoError(t, err)
	require.NotNil(t, result.Variant)
	assert.Equal(t, "COAT-NAVY-M", result.Variant.SKU)
	assert.Equal(t, 3, result.Availability["color"]["Navy"])
	assert.Equal(t, 5, result.Availability["color"]["Camel"])
}

func TestMatchRejectsMalformedValueID(t *testing.T) {
	conn := setupStorefrontTestDB(t)
	svc := newStorefrontTestService(t, conn)
	ctx := context.Background()

	product := seedStorefrontProduct(t, conn, "wool-coat", true)
	seedStorefrontVariant(t, conn, product.ID, "COAT-NAVY-M", 3, map[string]any{"color": "Navy"})

	_, err := svc.Match(ctx, "wool-coat", MatchInput{
		ValueIDs: map[string]string{"color": "not-a-uuid"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
