package movements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/internal/alerts"
	"github.com/Zwubman/team-work-supply-tracker/internal/items"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
)

const alertDispatchTimeout = 30 * time.Second

// Service records and lists stock movements.
type Service interface {
	RecordOutbound(ctx context.Context, actorID uuid.UUID, req RecordOutboundRequest) (*RecordOutboundResponse, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type adminEmailLister interface {
	ListAdminEmails(ctx context.Context) ([]string, error)
}

type service struct {
	db        txRunner
	movements Repository
	items     items.Repository
	admins    adminEmailLister
	notifier  alerts.Notifier
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build a movements service.
type ServiceParams struct {
	TxRunner     txRunner
	MovementRepo Repository
	ItemRepo     items.Repository
	AdminEmails  adminEmailLister
	Notifier     alerts.Notifier
	Logger       *logger.Logger
}

// NewService wires movement dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.MovementRepo == nil {
		return nil, fmt.Errorf("movement repository is required")
	}
	if params.ItemRepo == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	if params.AdminEmails == nil {
		return nil, fmt.Errorf("admin email source is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		db:        params.TxRunner,
		movements: params.MovementRepo,
		items:     params.ItemRepo,
		admins:    params.AdminEmails,
		notifier:  params.Notifier,
		logg:      params.Logger,
	}, nil
}

// RecordOutbound withdraws stock and appends a ledger entry in one
// transaction. The decrement is conditional on sufficient stock, so two
// concurrent withdrawals can never take the row negative.
func (s *service) RecordOutbound(ctx context.Context, actorID uuid.UUID, req RecordOutboundRequest) (*RecordOutboundResponse, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	if req.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var (
		item     *models.Item
		movement *models.Movement
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := s.items.WithTx(tx)

		ok, err := itemRepo.DecrementQuantity(ctx, req.ItemID, req.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
		}
		if !ok {
			if _, err := itemRepo.FindByID(ctx, req.ItemID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")
		}

		movement = &models.Movement{
			ID:           uuid.New(),
			MovementType: enums.MovementTypeOutbound,
			Quantity:     req.Quantity,
			ItemID:       req.ItemID,
			MovedBy:      actorID,
		}
		if err := s.movements.WithTx(tx).Create(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record movement")
		}

		item, err = itemRepo.FindByID(ctx, req.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RecordOutboundResponse{
		MovementID:     movement.ID,
		Item:           items.FromModel(item),
		EmailAlertSent: s.maybeDispatchLowStockAlert(ctx, item),
	}, nil
}

// maybeDispatchLowStockAlert reports whether an alert goes out for the item
// and fires the email without blocking the request.
func (s *service) maybeDispatchLowStockAlert(ctx context.Context, item *models.Item) bool {
	if item == nil || !item.IsLowStock() {
		return false
	}

	recipients, err := s.admins.ListAdminEmails(ctx)
	if err != nil {
		s.logg.Error(ctx, "list admin emails for low stock alert", err)
		return false
	}
	if len(recipients) == 0 {
		return false
	}

	snapshot := *item
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertDispatchTimeout)
		defer cancel()
		if err := s.notifier.LowStock(ctx, &snapshot); err != nil {
			s.logg.Error(ctx, "dispatch low stock alert", err)
		}
	}()
	return true
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := ListFilter{
		ItemID:  params.ItemID,
		MovedBy: params.MovedBy,
	}
	if params.MovementType != "" {
		movementType, err := enums.ParseMovementType(params.MovementType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type")
		}
		query.MovementType = &movementType
	}

	rows, err := s.movements.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movements")
	}
	return &ListResult{Movements: rows}, nil
}
