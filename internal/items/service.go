package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
)

// Service defines catalog operations over stock items.
type Service interface {
	Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context) ([]ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires item dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	item := &models.Item{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		SKU:        strings.TrimSpace(req.SKU),
		Quantity:   0,
		Threshold:  req.Threshold,
		PictureURL: req.PictureURL,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return FromModels(items), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
		fields["name"] = item.Name
	}
	if req.Threshold != nil {
		item.Threshold = *req.Threshold
		fields["threshold"] = item.Threshold
	}
	if req.PictureURL != nil {
		item.PictureURL = req.PictureURL
		fields["picture_url"] = req.PictureURL
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
		}
	}
	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count item references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "item has recorded movements or supply requests")
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

func (s *service) findItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}
	return item, nil
}
