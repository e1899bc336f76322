package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
)

// ItemDTO is the transport shape for a stock item.
type ItemDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Quantity   int       `json:"quantity"`
	Threshold  int       `json:"threshold"`
	PictureURL *string   `json:"picture_url,omitempty"`
	LowStock   bool      `json:"low_stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateItemRequest captures the payload accepted when registering an item.
// New items always start at zero stock; quantity only changes through
// movements and supply approvals.
type CreateItemRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=200"`
	SKU        string  `json:"sku" validate:"required,min=1,max=64"`
	Threshold  int     `json:"threshold" validate:"required,min=1"`
	PictureURL *string `json:"picture_url" validate:"omitempty,url"`
}

// UpdateItemRequest carries the partial update payload. The SKU is immutable
// once assigned, and the stock counter is not editable here.
type UpdateItemRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=200"`
	Threshold  *int    `json:"threshold" validate:"omitempty,min=1"`
	PictureURL *string `json:"picture_url" validate:"omitempty,url"`
}

func FromModel(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:         item.ID,
		Name:       item.Name,
		SKU:        item.SKU,
		Quantity:   item.Quantity,
		Threshold:  item.Threshold,
		PictureURL: item.PictureURL,
		LowStock:   item.IsLowStock(),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func FromModels(items []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
