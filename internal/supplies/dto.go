package supplies

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
)

// CreateSupplyRequest captures a supplier's restock proposal.
type CreateSupplyRequest struct {
	ItemID      uuid.UUID `json:"item_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
}

// UpdateSupplyRequest carries the fields a requester may change while the
// request is still pending.
type UpdateSupplyRequest struct {
	Quantity    *int    `json:"quantity" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// SupplyDTO is the transport shape for a supply request.
type SupplyDTO struct {
	ID          uuid.UUID          `json:"id"`
	Quantity    int                `json:"quantity"`
	Description *string            `json:"description,omitempty"`
	Status      enums.SupplyStatus `json:"status"`
	ItemID      uuid.UUID          `json:"item_id"`
	RequestedBy uuid.UUID          `json:"requested_by"`
	ApprovedBy  *uuid.UUID         `json:"approved_by,omitempty"`
	RejectedBy  *uuid.UUID         `json:"rejected_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ListResult wraps the joined supply rows.
type ListResult struct {
	Supplies []SupplyRow `json:"supplies"`
}

func FromModel(s *models.Supply) *SupplyDTO {
	if s == nil {
		return nil
	}
	return &SupplyDTO{
		ID:          s.ID,
		Quantity:    s.Quantity,
		Description: s.Description,
		Status:      s.Status,
		ItemID:      s.ItemID,
		RequestedBy: s.RequestedBy,
		ApprovedBy:  s.ApprovedBy,
		RejectedBy:  s.RejectedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
