package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Zwubman/team-work-supply-tracker/api/responses"
	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/redis"
)

const readyProbeTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SupplyTracker-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datasources before reporting readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SupplyTracker-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
