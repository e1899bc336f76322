package movements

import (
	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/internal/items"
)

// RecordOutboundRequest captures an outbound stock withdrawal.
type RecordOutboundRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// RecordOutboundResponse returns the ledger entry, the depleted item, and
// whether a low stock alert was dispatched as a result of the withdrawal.
type RecordOutboundResponse struct {
	MovementID     uuid.UUID      `json:"movement_id"`
	Item           *items.ItemDTO `json:"item"`
	EmailAlertSent bool           `json:"email_alert_sent"`
}

// ListParams filters the movement ledger.
type ListParams struct {
	ItemID       *uuid.UUID
	MovementType string
	MovedBy      *uuid.UUID
}

// ListResult wraps the joined ledger rows.
type ListResult struct {
	Movements []MovementRow `json:"movements"`
}
