package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/solenne-shop/solenne-backend/pkg/enums"
	"github.com/solenne-shop/solenne-backend/pkg/types"
)

// OrderEvent is an immutable audit row appended on every successful status
// update. Rows are never modified or deleted individually; they only go away
// with the order's cascade delete.
type OrderEvent struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	Kind           enums.OrderEventKind `gorm:"column:kind;not null"`
	PreviousStatus *string              `gorm:"column:previous_status"`
	NewStatus      *string              `gorm:"column:new_status"`
	ChangedFields  types.JSONMap        `gorm:"column:changed_fields;type:jsonb;serializer:json"`
	ActorID        *uuid.UUID           `gorm:"column:actor_id;type:uuid"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
