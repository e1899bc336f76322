package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
)

// Supply is a supplier's restock request. It is created pending and
// transitions exactly once to approved, rejected, or cancelled.
type Supply struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Quantity    int                `gorm:"column:quantity;not null"`
	Description *string            `gorm:"column:description"`
	Status      enums.SupplyStatus `gorm:"column:status;type:supply_status_enum;not null;default:pending"`
	ItemID      uuid.UUID          `gorm:"column:item_id;type:uuid;not null"`
	RequestedBy uuid.UUID          `gorm:"column:requested_by;type:uuid;not null"`
	ApprovedBy  *uuid.UUID         `gorm:"column:approved_by;type:uuid"`
	RejectedBy  *uuid.UUID         `gorm:"column:rejected_by;type:uuid"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
