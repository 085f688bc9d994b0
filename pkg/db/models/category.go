package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products and decides whether size selection is mandatory
// for the products underneath it.
type Category struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string     `gorm:"column:slug;uniqueIndex;not null"`
	Name          string     `gorm:"column:name;not null"`
	ParentID      *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	RequiresSizes bool       `gorm:"column:requires_sizes;not null;default:false"`
	Position      int        `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
