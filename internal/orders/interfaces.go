package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
)

// Repository defines persistence operations for the admin order surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]orderSummaryRecord, error)
	Count(ctx context.Context, filters ListFilters) (int64, error)
	Save(ctx context.Context, order *models.Order) error
	AppendEvents(ctx context.Context, events []models.OrderEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}
