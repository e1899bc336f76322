package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Zwubman/team-work-supply-tracker/api/controllers"
	"github.com/Zwubman/team-work-supply-tracker/api/middleware"
	"github.com/Zwubman/team-work-supply-tracker/internal/auth"
	"github.com/Zwubman/team-work-supply-tracker/internal/items"
	"github.com/Zwubman/team-work-supply-tracker/internal/movements"
	"github.com/Zwubman/team-work-supply-tracker/internal/supplies"
	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	authService auth.Service,
	itemsService items.Service,
	movementsService movements.Service,
	suppliesService supplies.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(itemsService, logg))
			r.Get("/{itemId}", controllers.GetItem(itemsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
				r.Post("/", controllers.CreateItem(itemsService, logg))
				r.Patch("/{itemId}", controllers.UpdateItem(itemsService, logg))
				r.Delete("/{itemId}", controllers.DeleteItem(itemsService, logg))
			})
		})

		r.Route("/movements", func(r chi.Router) {
			r.Get("/", controllers.ListMovements(movementsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
				r.Post("/", controllers.RecordOutboundMovement(movementsService, logg))
			})
		})

		r.Route("/supplies", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleSupplier), logg))
				r.Post("/", controllers.CreateSupplyRequest(suppliesService, logg))
				r.Get("/mine", controllers.ListMySupplies(suppliesService, logg))
				r.Patch("/{supplyId}", controllers.UpdateSupplyRequest(suppliesService, logg))
				r.Patch("/{supplyId}/cancel", controllers.CancelSupplyRequest(suppliesService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
				r.Get("/", controllers.ListAllSupplies(suppliesService, logg))
				r.Patch("/{supplyId}/approve", controllers.ApproveSupplyRequest(suppliesService, logg))
				r.Patch("/{supplyId}/reject", controllers.RejectSupplyRequest(suppliesService, logg))
			})
		})
	})

	return r
}
