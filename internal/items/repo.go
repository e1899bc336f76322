package items

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
)

// Repository exposes persistence helpers for inventory items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
	DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	ListAtOrBelowThreshold(ctx context.Context) ([]models.Item, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an items repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateFields writes only the provided columns. Quantity is deliberately not
// reachable here; stock changes go through the atomic increment helpers so a
// concurrent movement is never overwritten by a stale edit.
func (r *repositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	delete(fields, "quantity")
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountReferences returns how many movements and supply requests point at the item.
func (r *repositoryImpl) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var movements int64
	if err := r.db.WithContext(ctx).
		Model(&models.Movement{}).
		Where("item_id = ?", id).
		Count(&movements).Error; err != nil {
		return 0, err
	}

	var supplies int64
	if err := r.db.WithContext(ctx).
		Model(&models.Supply{}).
		Where("item_id = ?", id).
		Count(&supplies).Error; err != nil {
		return 0, err
	}
	return movements + supplies, nil
}

// DecrementQuantity atomically subtracts stock, refusing to go below zero.
// The guard in the WHERE clause makes concurrent depletions serialize on the
// row without a prior read.
func (r *repositoryImpl) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementQuantity atomically adds stock to the item row.
func (r *repositoryImpl) IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListAtOrBelowThreshold(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("quantity <= threshold").
		Order("quantity ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
