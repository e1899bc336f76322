package supplies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/internal/alerts"
	"github.com/Zwubman/team-work-supply-tracker/internal/items"
	"github.com/Zwubman/team-work-supply-tracker/internal/movements"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
)

const approvalNoticeTimeout = 30 * time.Second

// Service manages the supply request lifecycle.
type Service interface {
	Request(ctx context.Context, actorID uuid.UUID, req CreateSupplyRequest) (*SupplyDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, supplyID uuid.UUID, req UpdateSupplyRequest) (*SupplyDTO, error)
	Cancel(ctx context.Context, actorID uuid.UUID, supplyID uuid.UUID) (*SupplyDTO, error)
	Approve(ctx context.Context, adminID uuid.UUID, supplyID uuid.UUID) (*ApproveResult, error)
	Reject(ctx context.Context, adminID uuid.UUID, supplyID uuid.UUID) (*SupplyDTO, error)
	ListMine(ctx context.Context, actorID uuid.UUID, status string) (*ListResult, error)
	ListAll(ctx context.Context, status string) (*ListResult, error)
}

// ApproveResult returns the resolved request plus the restocked item.
type ApproveResult struct {
	Supply *SupplyDTO     `json:"supply"`
	Item   *items.ItemDTO `json:"item"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	db        txRunner
	supplies  Repository
	items     items.Repository
	movements movements.Repository
	users     userFinder
	notifier  alerts.Notifier
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build a supplies service.
type ServiceParams struct {
	TxRunner     txRunner
	SupplyRepo   Repository
	ItemRepo     items.Repository
	MovementRepo movements.Repository
	UserRepo     userFinder
	Notifier     alerts.Notifier
	Logger       *logger.Logger
}

// NewService wires supply dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.SupplyRepo == nil {
		return nil, fmt.Errorf("supply repository is required")
	}
	if params.ItemRepo == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	if params.MovementRepo == nil {
		return nil, fmt.Errorf("movement repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		db:        params.TxRunner,
		supplies:  params.SupplyRepo,
		items:     params.ItemRepo,
		movements: params.MovementRepo,
		users:     params.UserRepo,
		notifier:  params.Notifier,
		logg:      params.Logger,
	}, nil
}

func (s *service) Request(ctx context.Context, actorID uuid.UUID, req CreateSupplyRequest) (*SupplyDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.items.FindByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}

	supply := &models.Supply{
		ID:          uuid.New(),
		Quantity:    req.Quantity,
		Description: trimDescription(req.Description),
		Status:      enums.SupplyStatusPending,
		ItemID:      req.ItemID,
		RequestedBy: actorID,
	}
	if err := s.supplies.Create(ctx, supply); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supply request")
	}
	return FromModel(supply), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, supplyID uuid.UUID, req UpdateSupplyRequest) (*SupplyDTO, error) {
	supply, err := s.findOwned(ctx, actorID, supplyID)
	if err != nil {
		return nil, err
	}
	if supply.Status != enums.SupplyStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending requests can be edited")
	}

	fields := map[string]any{}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		fields["quantity"] = *req.Quantity
	}
	if req.Description != nil {
		fields["description"] = trimDescription(req.Description)
	}
	if len(fields) == 0 {
		return FromModel(supply), nil
	}

	updated, err := s.supplies.UpdatePending(ctx, supplyID, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update supply request")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved")
	}

	supply, err = s.supplies.FindByID(ctx, supplyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload supply request")
	}
	return FromModel(supply), nil
}

func (s *service) Cancel(ctx context.Context, actorID uuid.UUID, supplyID uuid.UUID) (*SupplyDTO, error) {
	supply, err := s.findOwned(ctx, actorID, supplyID)
	if err != nil {
		return nil, err
	}

	transitioned, err := s.supplies.TransitionFromPending(ctx, supplyID, enums.SupplyStatusCancelled, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel supply request")
	}
	if !transitioned {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved")
	}

	supply.Status = enums.SupplyStatusCancelled
	return FromModel(supply), nil
}

// Approve accepts a pending request, restocks the item, and appends an
// inbound ledger entry in one transaction. The pending-status guard means a
// request can be resolved exactly once even under concurrent admins.
func (s *service) Approve(ctx context.Context, adminID uuid.UUID, supplyID uuid.UUID) (*ApproveResult, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}

	if _, err := s.findSupply(ctx, supplyID); err != nil {
		return nil, err
	}

	var supply *models.Supply
	var item *models.Item
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		supplyRepo := s.supplies.WithTx(tx)
		itemRepo := s.items.WithTx(tx)

		transitioned, err := supplyRepo.TransitionFromPending(ctx, supplyID, enums.SupplyStatusApproved, adminID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve supply request")
		}
		if !transitioned {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved")
		}

		// Re-read inside the transaction: a supplier edit can land between
		// the pre-check and the status transition, and the restock must use
		// the quantity that actually got approved.
		supply, err = supplyRepo.FindByID(ctx, supplyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload supply request")
		}

		restocked, err := itemRepo.IncrementQuantity(ctx, supply.ItemID, supply.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restock item")
		}
		if !restocked {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		movement := &models.Movement{
			ID:           uuid.New(),
			MovementType: enums.MovementTypeInbound,
			Quantity:     supply.Quantity,
			ItemID:       supply.ItemID,
			MovedBy:      adminID,
		}
		if err := s.movements.WithTx(tx).Create(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record inbound movement")
		}

		item, err = itemRepo.FindByID(ctx, supply.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchApprovalNotice(ctx, supply, item)

	return &ApproveResult{
		Supply: FromModel(supply),
		Item:   items.FromModel(item),
	}, nil
}

// dispatchApprovalNotice emails the requester without blocking the request.
// Delivery failures are logged and swallowed since the approval already
// committed.
func (s *service) dispatchApprovalNotice(ctx context.Context, supply *models.Supply, item *models.Item) {
	requester, err := s.users.FindByID(ctx, supply.RequestedBy)
	if err != nil {
		s.logg.Error(ctx, "lookup requester for approval notice", err)
		return
	}

	supplySnapshot := *supply
	itemSnapshot := *item
	email := requester.Email
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), approvalNoticeTimeout)
		defer cancel()
		if err := s.notifier.SupplyApproved(ctx, &supplySnapshot, &itemSnapshot, email); err != nil {
			s.logg.Error(ctx, "dispatch approval notice", err)
		}
	}()
}

func (s *service) Reject(ctx context.Context, adminID uuid.UUID, supplyID uuid.UUID) (*SupplyDTO, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}

	supply, err := s.findSupply(ctx, supplyID)
	if err != nil {
		return nil, err
	}

	transitioned, err := s.supplies.TransitionFromPending(ctx, supplyID, enums.SupplyStatusRejected, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject supply request")
	}
	if !transitioned {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved")
	}

	supply.Status = enums.SupplyStatusRejected
	supply.RejectedBy = &adminID
	return FromModel(supply), nil
}

func (s *service) ListMine(ctx context.Context, actorID uuid.UUID, status string) (*ListResult, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}

	params := listSuppliesParams{RequestedBy: &actorID}
	parsed, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	params.Status = parsed

	rows, err := s.supplies.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supply requests")
	}
	return &ListResult{Supplies: rows}, nil
}

func (s *service) ListAll(ctx context.Context, status string) (*ListResult, error) {
	params := listSuppliesParams{}
	parsed, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	params.Status = parsed

	rows, err := s.supplies.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supply requests")
	}
	return &ListResult{Supplies: rows}, nil
}

func (s *service) findSupply(ctx context.Context, supplyID uuid.UUID) (*models.Supply, error) {
	if supplyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply id required")
	}
	supply, err := s.supplies.FindByID(ctx, supplyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supply request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supply request")
	}
	return supply, nil
}

func (s *service) findOwned(ctx context.Context, actorID uuid.UUID, supplyID uuid.UUID) (*models.Supply, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	supply, err := s.findSupply(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	if supply.RequestedBy != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another user")
	}
	return supply, nil
}

func parseStatusFilter(status string) (*enums.SupplyStatus, error) {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := enums.ParseSupplyStatus(trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &parsed, nil
}

func trimDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
