package supplies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
)

// Repository exposes persistence helpers for supply requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, supply *models.Supply) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supply, error)
	UpdatePending(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error)
	TransitionFromPending(ctx context.Context, id uuid.UUID, next enums.SupplyStatus, actorID uuid.UUID) (bool, error)
	List(ctx context.Context, params listSuppliesParams) ([]SupplyRow, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a supplies repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listSuppliesParams struct {
	RequestedBy *uuid.UUID
	Status      *enums.SupplyStatus
}

// SupplyRow is a supply request joined with its item and requester.
type SupplyRow struct {
	ID              uuid.UUID          `json:"id"`
	Quantity        int                `json:"quantity"`
	Description     *string            `json:"description,omitempty"`
	Status          enums.SupplyStatus `json:"status"`
	ItemID          uuid.UUID          `json:"item_id"`
	ItemName        string             `json:"item_name"`
	ItemSKU         string             `json:"item_sku"`
	RequestedBy     uuid.UUID          `json:"requested_by"`
	RequestedByName string             `json:"requested_by_name"`
	ApprovedBy      *uuid.UUID         `json:"approved_by,omitempty"`
	RejectedBy      *uuid.UUID         `json:"rejected_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, supply *models.Supply) error {
	return r.db.WithContext(ctx).Create(supply).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Supply, error) {
	var supply models.Supply
	if err := r.db.WithContext(ctx).First(&supply, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supply, nil
}

// UpdatePending applies field changes only while the request is still pending.
func (r *repositoryImpl) UpdatePending(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Supply{}).
		Where("id = ? AND status = ?", id, enums.SupplyStatusPending).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TransitionFromPending moves a pending request into a terminal status. The
// status guard in the WHERE clause means only one caller can ever win the
// transition.
func (r *repositoryImpl) TransitionFromPending(ctx context.Context, id uuid.UUID, next enums.SupplyStatus, actorID uuid.UUID) (bool, error) {
	fields := map[string]any{"status": next}
	switch next {
	case enums.SupplyStatusApproved:
		fields["approved_by"] = actorID
	case enums.SupplyStatusRejected:
		fields["rejected_by"] = actorID
	}

	result := r.db.WithContext(ctx).
		Model(&models.Supply{}).
		Where("id = ? AND status = ?", id, enums.SupplyStatusPending).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listSuppliesParams) ([]SupplyRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Supply{}).
		Select(`supplies.id,
			supplies.quantity,
			supplies.description,
			supplies.status,
			supplies.item_id,
			items.name AS item_name,
			items.sku AS item_sku,
			supplies.requested_by,
			users.name AS requested_by_name,
			supplies.approved_by,
			supplies.rejected_by,
			supplies.created_at,
			supplies.updated_at`).
		Joins("JOIN items ON items.id = supplies.item_id").
		Joins("JOIN users ON users.id = supplies.requested_by")

	if params.RequestedBy != nil {
		query = query.Where("supplies.requested_by = ?", *params.RequestedBy)
	}

	switch {
	case params.Status == nil:
		// Pending requests surface first so admins see actionable work on top.
		query = query.Order("CASE WHEN supplies.status = 'pending' THEN 0 ELSE 1 END").
			Order("supplies.created_at DESC")
	case params.Status.IsTerminal():
		query = query.Where("supplies.status = ?", *params.Status).
			Order("supplies.updated_at DESC")
	default:
		query = query.Where("supplies.status = ?", *params.Status).
			Order("supplies.created_at DESC")
	}

	var rows []SupplyRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
