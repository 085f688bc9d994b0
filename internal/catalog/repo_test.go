package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  parent_id TEXT,
  requires_sizes INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
		`CREATE TABLE IF NOT EXISTS attributes (
  id TEXT PRIMARY KEY,
  key TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
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
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, slug string, published bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Slug:      slug,
		Title:     "Test " + slug,
		Price:     decimal.NewFromInt(50),
		Published: published,
	}
	require.NoError(t, conn.Omit("Variants", "Labels", "AttributeLinks").Create(product).Error)
	return product
}

func mustCreateTestVariant(t *testing.T, conn *gorm.DB, productID uuid.UUID, sku string, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		SKU:       sku,
		Price:     decimal.NewFromInt(50),
		Stock:     stock,
		Published: true,
	}
	require.NoError(t, conn.Omit("Options").Create(variant).Error)
	return variant
}

func TestRepositoryFindByIDPreloadsAssociations(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, "wool-coat", true)
	variant := mustCreateTestVariant(t, conn, product.ID, "COAT-NAVY-M", 3)
	key, value := "color", "Navy"
	require.NoError(t, conn.Create(&models.ProductVariantOption{
		ID:           uuid.New(),
		VariantID:    variant.ID,
		AttributeKey: &key,
		Value:        &value,
	}).Error)
	require.NoError(t, conn.Create(&models.ProductLabel{
		ID:        uuid.New(),
		ProductID: product.ID,
		Text:      "New Season",
	}).Error)

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Variants, 1)
	require.Len(t, loaded.Variants[0].Options, 1)
	assert.Equal(t, "Navy", *loaded.Variants[0].Options[0].Value)
	require.Len(t, loaded.Labels, 1)
	assert.Equal(t, "New Season", loaded.Labels[0].Text)
}

func TestRepositoryFindSKUConflicts(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mine := mustCreateTestProduct(t, conn, "mine", true)
	other := mustCreateTestProduct(t, conn, "other", true)
	mustCreateTestVariant(t, conn, mine.ID, "SHARED-SKU", 1)
	mustCreateTestVariant(t, conn, other.ID, "TAKEN-SKU", 1)

	conflicts, err := repo.FindSKUConflicts(ctx, mine.ID, []string{"shared-sku", " taken-sku ", "free-sku"})
	require.NoError(t, err)
	// Own SKUs never conflict; comparison ignores case and padding.
	assert.Equal(t, []string{"TAKEN-SKU"}, conflicts)
}

func TestRepositoryListProductsFiltersAndCounts(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p := mustCreateTestProduct(t, conn, fmt.Sprintf("linen-shirt-%d", i), true)
		mustCreateTestVariant(t, conn, p.ID, fmt.Sprintf("LS-%d", i), i+1)
	}
	mustCreateTestProduct(t, conn, "hidden-draft", false)

	result, err := repo.ListProducts(ctx, ProductListQuery{
		Pagination:    pagination.Params{Page: 1, Limit: 2},
		Filters:       ProductListFilters{Search: "linen"},
		PublishedOnly: true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	require.Len(t, result.Products, 2)
	assert.Equal(t, 1, result.Products[0].VariantCount)
}

func TestRepositoryListProductsSKUFilter(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	match := mustCreateTestProduct(t, conn, "match", true)
	miss := mustCreateTestProduct(t, conn, "miss", true)
	mustCreateTestVariant(t, conn, match.ID, "WANTED-1", 1)
	mustCreateTestVariant(t, conn, miss.ID, "OTHER-1", 1)

	result, err := repo.ListProducts(ctx, ProductListQuery{
		Pagination: pagination.Params{Page: 1, Limit: 20},
		Filters:    ProductListFilters{SKU: "wanted"},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "match", result.Products[0].Slug)
}

func TestRepositoryFindAttributeValueByKey(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	attribute := &models.Attribute{ID: uuid.New(), Key: "material", Name: "Material"}
	require.NoError(t, conn.Omit("Values").Create(attribute).Error)
	value := &models.AttributeValue{ID: uuid.New(), AttributeID: attribute.ID, Value: "Leather"}
	require.NoError(t, conn.Omit("Attribute").Create(value).Error)

	found, err := repo.FindAttributeValue(ctx, "Material", "leather")
	require.NoError(t, err)
	assert.Equal(t, value.ID, found.ID)

	_, err = repo.FindAttributeValue(ctx, "material", "suede")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryReplaceLabelsSwapsRows(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, "badged", true)
	require.NoError(t, repo.ReplaceLabels(ctx, product.ID, []models.ProductLabel{
		{ID: uuid.New(), ProductID: product.ID, Text: "Sale"},
	}))
	require.NoError(t, repo.ReplaceLabels(ctx, product.ID, []models.ProductLabel{
		{ID: uuid.New(), ProductID: product.ID, Text: "Back in stock"},
	}))

	var rows []models.ProductLabel
	require.NoError(t, conn.Where("product_id = ?", product.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Back in stock", rows[0].Text)
}

func TestRepositoryListProductsSortPairs(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for slug, price := range map[string]int64{"alpaca-scarf": 30, "beanie": 10, "cardigan": 20} {
		p := mustCreateTestProduct(t, conn, slug, true)
		require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", decimal.NewFromInt(price)).Error)
	}

	slugsFor := func(sort string) []string {
		result, err := repo.ListProducts(ctx, ProductListQuery{
			Pagination: pagination.Params{Page: 1, Limit: 20},
			Filters:    ProductListFilters{Sort: sort},
		})
		require.NoError(t, err)
		slugs := make([]string, 0, len(result.Products))
		for _, p := range result.Products {
			slugs = append(slugs, p.Slug)
		}
		return slugs
	}

	assert.Equal(t, []string{"beanie", "cardigan", "alpaca-scarf"}, slugsFor("price-asc"))
	assert.Equal(t, []string{"alpaca-scarf", "cardigan", "beanie"}, slugsFor("price-desc"))
	assert.Equal(t, []string{"beanie", "cardigan", "alpaca-scarf"}, slugsFor("price"))
	assert.Equal(t, []string{"alpaca-scarf", "beanie", "cardigan"}, slugsFor("title-asc"))
}
