package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/api/responses"
	"github.com/Zwubman/team-work-supply-tracker/api/validators"
	"github.com/Zwubman/team-work-supply-tracker/internal/supplies"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
)

func supplyIDFromRoute(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "supplyId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supply id")
	}
	return id, nil
}

// CreateSupplyRequest opens a restock request for review.
func CreateSupplyRequest(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body supplies.CreateSupplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supply, err := svc.Request(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, supply)
	}
}

// ListMySupplies returns the caller's own requests.
func ListMySupplies(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMine(r.Context(), actorID, validators.ParseQueryString(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListAllSupplies returns every request, pending first.
func ListAllSupplies(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		result, err := svc.ListAll(r.Context(), validators.ParseQueryString(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// UpdateSupplyRequest edits a pending request owned by the caller.
func UpdateSupplyRequest(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplyID, err := supplyIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body supplies.UpdateSupplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supply, err := svc.Update(r.Context(), actorID, supplyID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supply)
	}
}

// CancelSupplyRequest withdraws a pending request owned by the caller.
func CancelSupplyRequest(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplyID, err := supplyIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supply, err := svc.Cancel(r.Context(), actorID, supplyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supply)
	}
}

// ApproveSupplyRequest resolves a pending request and restocks the item.
func ApproveSupplyRequest(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		adminID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplyID, err := supplyIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Approve(r.Context(), adminID, supplyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// RejectSupplyRequest resolves a pending request without touching stock.
func RejectSupplyRequest(svc supplies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplies service unavailable"))
			return
		}

		adminID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplyID, err := supplyIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supply, err := svc.Reject(r.Context(), adminID, supplyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supply)
	}
}
