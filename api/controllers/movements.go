package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/api/middleware"
	"github.com/Zwubman/team-work-supply-tracker/api/responses"
	"github.com/Zwubman/team-work-supply-tracker/api/validators"
	"github.com/Zwubman/team-work-supply-tracker/internal/movements"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
)

func actorIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor id")
	}
	return id, nil
}

// RecordOutboundMovement depletes stock and logs the ledger entry.
func RecordOutboundMovement(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movements service unavailable"))
			return
		}

		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body movements.RecordOutboundRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecordOutbound(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListMovements returns the stock ledger with optional filters.
func ListMovements(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movements service unavailable"))
			return
		}

		itemID, err := validators.ParseQueryUUID(r, "item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movedBy, err := validators.ParseQueryUUID(r, "moved_by")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := movements.ListParams{
			ItemID:       itemID,
			MovedBy:      movedBy,
			MovementType: validators.ParseQueryString(r, "type"),
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
