package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByID loads the order with every association the admin detail needs.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Variant").
		Preload("Items.Variant.Options").
		Preload("Items.Variant.Options.AttributeValue").
		Preload("Items.Variant.Options.AttributeValue.Attribute").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type orderSummaryRecord struct {
	models.Order
	ItemCount     int
	UserFirstName string
	UserLastName  string
}

func applyOrderFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	qb = qb.Joins("LEFT JOIN users u ON u.id = o.user_id")
	if filters.Status != nil {
		qb = qb.Where("o.status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		qb = qb.Where("o.payment_status = ?", *filters.PaymentStatus)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(o.number) LIKE ? OR LOWER(o.customer_email) LIKE ? OR LOWER(COALESCE(o.customer_phone, '')) LIKE ?"+
				" OR LOWER(COALESCE(u.email, '')) LIKE ? OR LOWER(COALESCE(u.phone, '')) LIKE ?"+
				" OR LOWER(COALESCE(u.first_name, '') || ' ' || COALESCE(u.last_name, '')) LIKE ?)",
			pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}
	return qb
}

// List returns one page of order summary rows. The exact total comes from
// Count, which the service races against its deadline.
func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]orderSummaryRecord, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Table("orders o").
		Select(strings.Join([]string{
			"o.*",
			"(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id) AS item_count",
			"COALESCE(u.first_name, '') AS user_first_name",
			"COALESCE(u.last_name, '') AS user_last_name",
		}, ", "))
	qb = applyOrderFilters(qb, filters)

	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}
	switch filters.SortField {
	case "total":
		qb = qb.Order("o.total " + direction).Order("o.id " + direction)
	case "createdAt":
		qb = qb.Order("o.created_at " + direction).Order("o.id " + direction)
	default:
		qb = qb.Order("o.created_at DESC").Order("o.id DESC")
	}

	var records []orderSummaryRecord
	if err := qb.Offset(params.Offset()).Limit(params.Limit).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count runs the exact total query for the current filters.
func (r *repository) Count(ctx context.Context, filters ListFilters) (int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{}).Table("orders o")
	qb = applyOrderFilters(qb, filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Save writes the order's scalar columns.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Omit("Items", "Payments", "Events", "User").
		Save(order).
		Error
}

// AppendEvents inserts audit rows. Events are append-only; nothing in this
// repository updates or deletes them.
func (r *repository) AppendEvents(ctx context.Context, events []models.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

// Delete removes the order; items, payments, and events follow via FK
// cascade.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}
