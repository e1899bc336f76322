package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
)

// Movement records an immutable stock change tied to an item. Rows are
// append-only; there is no update path.
type Movement struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MovementType enums.MovementType `gorm:"column:movement_type;type:movement_type_enum;not null"`
	Quantity     int                `gorm:"column:quantity;not null"`
	ItemID       uuid.UUID          `gorm:"column:item_id;type:uuid;not null"`
	MovedBy      uuid.UUID          `gorm:"column:moved_by;type:uuid;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
