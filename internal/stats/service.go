package stats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/enums"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

// LowStockThreshold marks a variant as needing a restock nudge on the admin
// dashboard.
const LowStockThreshold = 5

// Dashboard is the admin landing-page counter block.
type Dashboard struct {
	OrdersByStatus   map[string]int64 `json:"ordersByStatus"`
	OrdersTotal      int64            `json:"ordersTotal"`
	Revenue          decimal.Decimal  `json:"revenue"`
	ProductCount     int64            `json:"productCount"`
	PublishedCount   int64            `json:"publishedCount"`
	VariantCount     int64            `json:"variantCount"`
	LowStockVariants int64            `json:"lowStockVariants"`
}

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewService(db *gorm.DB, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("stats service requires a database handle")
	}
	if logg == nil {
		return nil, fmt.Errorf("stats service requires a logger")
	}
	return &service{db: db, logger: logg}, nil
}

type statusCountRow struct {
	Status string
	Count  int64
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{
		OrdersByStatus: map[string]int64{},
		Revenue:        decimal.Zero,
	}
	for _, status := range enums.OrderStatuses() {
		dashboard.OrdersByStatus[status.String()] = 0
	}

	var rows []statusCountRow
	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	for _, row := range rows {
		dashboard.OrdersByStatus[row.Status] = row.Count
		dashboard.OrdersTotal += row.Count
	}

	var revenue *string
	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Select("CAST(COALESCE(SUM(total), 0) AS TEXT)").
		Scan(&revenue).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum paid revenue")
	}
	if revenue != nil {
		parsed, err := decimal.NewFromString(*revenue)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse revenue aggregate")
		}
		dashboard.Revenue = parsed
	}

	counts := []struct {
		dest  *int64
		model any
		scope func(*gorm.DB) *gorm.DB
		label string
	}{
		{&dashboard.ProductCount, &models.Product{}, nil, "count products"},
		{&dashboard.PublishedCount, &models.Product{}, func(qb *gorm.DB) *gorm.DB {
			return qb.Where("published = ?", true)
		}, "count published products"},
		{&dashboard.VariantCount, &models.ProductVariant{}, nil, "count variants"},
		{&dashboard.LowStockVariants, &models.ProductVariant{}, func(qb *gorm.DB) *gorm.DB {
			return qb.Where("stock < ?", LowStockThreshold)
		}, "count low-stock variants"},
	}
	for _, c := range counts {
		qb := s.db.WithContext(ctx).Model(c.model)
		if c.scope != nil {
			qb = c.scope(qb)
		}
		if err := qb.Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, c.label)
		}
	}

	return dashboard, nil
}
