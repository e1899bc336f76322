package movements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
)

// Repository exposes persistence helpers for the movement ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, movement *models.Movement) error
	List(ctx context.Context, params ListFilter) ([]MovementRow, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a movements repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListFilter narrows the ledger query.
type ListFilter struct {
	ItemID       *uuid.UUID
	MovementType *enums.MovementType
	MovedBy      *uuid.UUID
}

// MovementRow is a ledger entry joined with its item and mover.
type MovementRow struct {
	ID           uuid.UUID          `json:"id"`
	MovementType enums.MovementType `json:"movement_type"`
	Quantity     int                `json:"quantity"`
	ItemID       uuid.UUID          `json:"item_id"`
	ItemName     string             `json:"item_name"`
	ItemSKU      string             `json:"item_sku"`
	MovedBy      uuid.UUID          `json:"moved_by"`
	MovedByName  string             `json:"moved_by_name"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, movement *models.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repositoryImpl) List(ctx context.Context, params ListFilter) ([]MovementRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Movement{}).
		Select(`movements.id,
			movements.movement_type,
			movements.quantity,
			movements.item_id,
			items.name AS item_name,
			items.sku AS item_sku,
			movements.moved_by,
			users.name AS moved_by_name,
			movements.created_at`).
		Joins("JOIN items ON items.id = movements.item_id").
		Joins("JOIN users ON users.id = movements.moved_by")

	if params.ItemID != nil {
		query = query.Where("movements.item_id = ?", *params.ItemID)
	}
	if params.MovementType != nil {
		query = query.Where("movements.movement_type = ?", *params.MovementType)
	}
	if params.MovedBy != nil {
		query = query.Where("movements.moved_by = ?", *params.MovedBy)
	}

	var rows []MovementRow
	if err := query.Order("movements.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
