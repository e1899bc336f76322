package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/api/middleware"
	"github.com/Zwubman/team-work-supply-tracker/internal/items"
	"github.com/Zwubman/team-work-supply-tracker/internal/movements"
)

type testMovementsService struct {
	recordFn func(ctx context.Context, actorID uuid.UUID, req movements.RecordOutboundRequest) (*movements.RecordOutboundResponse, error)
	listFn   func(ctx context.Context, params movements.ListParams) (*movements.ListResult, error)
}

func (s *testMovementsService) RecordOutbound(ctx context.Context, actorID uuid.UUID, req movements.RecordOutboundRequest) (*movements.RecordOutboundResponse, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, actorID, req)
	}
	return nil, nil
}

func (s *testMovementsService) List(ctx context.Context, params movements.ListParams) (*movements.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, nil
}

func TestRecordOutboundMovementSuccess(t *testing.T) {
	actorID := uuid.New()
	itemID := uuid.New()
	svc := &testMovementsService{
		recordFn: func(ctx context.Context, actor uuid.UUID, req movements.RecordOutboundRequest) (*movements.RecordOutboundResponse, error) {
			if actor != actorID {
				t.Fatalf("unexpected actor %s", actor)
			}
			if req.ItemID != itemID || req.Quantity != 5 {
				t.Fatalf("unexpected request %+v", req)
			}
			return &movements.RecordOutboundResponse{
				MovementID:     uuid.New(),
				Item:           &items.ItemDTO{ID: itemID, Quantity: 7, Threshold: 10, LowStock: true},
				EmailAlertSent: true,
			}, nil
		},
	}

	body := `{"item_id":"` + itemID.String() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movements", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	resp := httptest.NewRecorder()
	RecordOutboundMovement(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data movements.RecordOutboundResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.EmailAlertSent {
		t.Fatal("expected alert flag in payload")
	}
}

func TestRecordOutboundMovementMissingActor(t *testing.T) {
	body := `{"item_id":"` + uuid.NewString() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movements", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordOutboundMovement(&testMovementsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRecordOutboundMovementRejectsZeroQuantity(t *testing.T) {
	body := `{"item_id":"` + uuid.NewString() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movements", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	RecordOutboundMovement(&testMovementsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListMovementsForwardsFilters(t *testing.T) {
	itemID := uuid.New()
	movedBy := uuid.New()
	svc := &testMovementsService{
		listFn: func(ctx context.Context, params movements.ListParams) (*movements.ListResult, error) {
			if params.ItemID == nil || *params.ItemID != itemID {
				t.Fatalf("unexpected item filter %v", params.ItemID)
			}
			if params.MovedBy == nil || *params.MovedBy != movedBy {
				t.Fatalf("unexpected actor filter %v", params.MovedBy)
			}
			if params.MovementType != "outbound" {
				t.Fatalf("unexpected type filter %s", params.MovementType)
			}
			return &movements.ListResult{}, nil
		},
	}

	target := "/api/v1/movements?item_id=" + itemID.String() + "&moved_by=" + movedBy.String() + "&type=outbound"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	ListMovements(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListMovementsRejectsMalformedFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/movements?item_id=nope", nil)
	resp := httptest.NewRecorder()
	ListMovements(&testMovementsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
