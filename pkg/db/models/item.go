package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a stock record keyed by its SKU. Quantity never drops below
// zero; the repositories enforce that with guarded updates.
type Item struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	SKU        string    `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Quantity   int       `gorm:"column:quantity;not null;default:0"`
	Threshold  int       `gorm:"column:threshold;not null"`
	PictureURL *string   `gorm:"column:picture_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether the item sits at or below its alert threshold.
func (i Item) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}
