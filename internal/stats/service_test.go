package stats

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

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/enums"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

func setupStatsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  user_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  fulfillment_status TEXT NOT NULL DEFAULT 'unfulfilled',
  currency TEXT NOT NULL DEFAULT 'USD',
  subtotal TEXT NOT NULL DEFAULT '0',
  discount_amount TEXT NOT NULL DEFAULT '0',
  shipping_amount TEXT NOT NULL DEFAULT '0',
  tax_amount TEXT NOT NULL DEFAULT '0',
  total TEXT NOT NULL DEFAULT '0',
  customer_email TEXT NOT NULL DEFAULT '',
  customer_phone TEXT,
  paid_at DATETIME,
  fulfilled_at DATETIME,
  cancelled_at DATETIME,
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
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newStatsTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "stats-test", Output: io.Discard})
	svc, err := NewService(conn, logg)
	require.NoError(t, err)
	return svc
}

func seedStatsOrder(t *testing.T, conn *gorm.DB, number string, status enums.OrderStatus, payment enums.PaymentStatus, total int64) {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		Number:        number,
		Status:        status,
		PaymentStatus: payment,
		Currency:      enums.CurrencyUSD,
		Subtotal:      decimal.NewFromInt(total),
		Total:         decimal.NewFromInt(total),
	}
	require.NoError(t, conn.Create(order).Error)
}

func TestDashboardCounts(t *testing.T) {
	conn := setupStatsTestDB(t)
	svc := newStatsTestService(t, conn)
	ctx := context.Background()

	seedStatsOrder(t, conn, "SOL-1001", enums.OrderStatusPending, enums.PaymentStatusPending, 40)
	seedStatsOrder(t, conn, "SOL-1002", enums.OrderStatusCompleted, enums.PaymentStatusPaid, 100)
	seedStatsOrder(t, conn, "SOL-1003", enums.OrderStatusCompleted, enums.PaymentStatusPaid, 60)
	seedStatsOrder(t, conn, "SOL-1004", enums.OrderStatusCancelled, enums.PaymentStatusRefunded, 80)

	productID := uuid.New()
	require.NoError(t, conn.Create(&models.Product{
		ID:        productID,
		Slug:      "wool-coat",
		Title:     "Wool Coat",
		Price:     decimal.NewFromInt(120),
		Published: true,
	}).Error)
	require.NoError(t, conn.Create(&models.Product{
		ID:    uuid.New(),
		Slug:  "draft-coat",
		Title: "Draft Coat",
		Price: decimal.NewFromInt(90),
	}).Error)
	require.NoError(t, conn.Create(&models.ProductVariant{
		ID: uuid.New(), ProductID: productID, SKU: "COAT-1", Price: decimal.NewFromInt(120), Stock: 12,
	}).Error)
	require.NoError(t, conn.Create(&models.ProductVariant{
		ID: uuid.New(), ProductID: productID, SKU: "COAT-2", Price: decimal.NewFromInt(120), Stock: 2,
	}).Error)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), dashboard.OrdersTotal)
	assert.Equal(t, int64(1), dashboard.OrdersByStatus["pending"])
	assert.Equal(t, int64(2), dashboard.OrdersByStatus["completed"])
	assert.Equal(t, int64(1), dashboard.OrdersByStatus["cancelled"])
	assert.Equal(t, int64(0), dashboard.OrdersByStatus["processing"])
	assert.Equal(t, "160", dashboard.Revenue.String())
	assert.Equal(t, int64(2), dashboard.ProductCount)
	assert.Equal(t, int64(1), dashboard.PublishedCount)
	assert.Equal(t, int64(2), dashboard.VariantCount)
	assert.Equal(t, int64(1), dashboard.LowStockVariants)
}

func TestDashboardEmptyDatabase(t *testing.T) {
	conn := setupStatsTestDB(t)
	svc := newStatsTestService(t, conn)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), dashboard.OrdersTotal)
	assert.Len(t, dashboard.OrdersByStatus, 4)
	assert.True(t, dashboard.Revenue.IsZero())
	assert.Equal(t, int64(0), dashboard.LowStockVariants)
}
