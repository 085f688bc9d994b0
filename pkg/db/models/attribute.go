package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Attribute is a named selection axis shared across products, e.g. color or size.
type Attribute struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key       string           `gorm:"column:key;uniqueIndex;not null"`
	Name      string           `gorm:"column:name;not null"`
	Position  int              `gorm:"column:position;not null;default:0"`
	Values    []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// AttributeValue is one selectable value of an attribute. A value may carry a
// photo, a swatch color list, or both; the color chips matter for the
// image back-fill skip rule on product save.
type AttributeValue struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AttributeID uuid.UUID      `gorm:"column:attribute_id;type:uuid;not null;index"`
	Attribute   *Attribute     `gorm:"foreignKey:AttributeID"`
	Value       string         `gorm:"column:value;not null"`
	Label       *string        `gorm:"column:label"`
	ImageURL    *string        `gorm:"column:image_url"`
	Colors      pq.StringArray `gorm:"column:colors;type:text[]"`
	Position    int            `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
