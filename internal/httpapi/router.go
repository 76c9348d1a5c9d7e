package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"vehicletracker/internal/api"
	"vehicletracker/internal/audit"
	"vehicletracker/internal/auth"
	"vehicletracker/internal/booking"
	"vehicletracker/internal/maintenance"
	"vehicletracker/internal/notify"
	"vehicletracker/internal/report"
	"vehicletracker/internal/trip"
	"vehicletracker/internal/user"
	"vehicletracker/internal/vehicle"
	"vehicletracker/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
	Log zerolog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(api.RequestLogger(deps.Log))
	if len(deps.Cfg.AllowedOrigins) > 0 {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mailer := notify.New(deps.Cfg.SMTP)

	usersRepo := user.NewRepository(deps.DB)
	vehiclesRepo := vehicle.NewRepository(deps.DB)
	bookingsRepo := booking.NewRepository(deps.DB)
	tripsRepo := trip.NewRepository(deps.DB)
	maintenanceRepo := maintenance.NewRepository(deps.DB)
	reportsRepo := report.NewRepository(deps.DB)
	auditRepo := audit.NewRepository(deps.DB)

	authHandlers := auth.Handlers{Cfg: deps.Cfg, DB: deps.DB, Users: usersRepo}
	userHandlers := user.Handlers{DB: deps.DB, Repo: usersRepo}
	vehicleHandlers := vehicle.Handlers{DB: deps.DB, Repo: vehiclesRepo}
	bookingHandlers := booking.Handlers{DB: deps.DB, Repo: bookingsRepo, Users: usersRepo, Mailer: mailer}
	tripHandlers := trip.Handlers{DB: deps.DB, Repo: tripsRepo}
	maintenanceHandlers := maintenance.Handlers{DB: deps.DB, Repo: maintenanceRepo}
	reportHandlers := report.Handlers{Repo: reportsRepo}
	auditHandlers := audit.Handlers{Repo: auditRepo}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/login", authHandlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(api.Auth(deps.Cfg.Auth.JWTSecret))

			r.Get("/vehicles", vehicleHandlers.List)

			r.Get("/bookings", bookingHandlers.List)
			r.Post("/bookings", bookingHandlers.Create)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Post("/bookings/{id}/cancel", bookingHandlers.Cancel)
			r.Get("/bookings/{id}/trip", tripHandlers.Get)
			r.Post("/bookings/{id}/trip/start", tripHandlers.Start)
			r.Post("/bookings/{id}/trip/end", tripHandlers.End)

			r.Get("/calendar/events", bookingHandlers.CalendarEvents)

			r.Get("/maintenance", maintenanceHandlers.List)
			r.Get("/maintenance/{id}", maintenanceHandlers.Get)

			r.Get("/reports/vehicle", reportHandlers.Vehicle)
			r.Get("/reports/budget", reportHandlers.Budget)

			// Admin-only surface.
			r.Group(func(r chi.Router) {
				r.Use(api.RequireRole(string(user.RoleAdmin)))

				r.Get("/users", userHandlers.List)
				r.Patch("/users/{id}", userHandlers.Update)

				r.Post("/vehicles", vehicleHandlers.Create)
				r.Patch("/vehicles/{id}", vehicleHandlers.Update)

				r.Post("/bookings/{id}/approve", bookingHandlers.Approve)
				r.Post("/bookings/{id}/assign-driver", bookingHandlers.AssignDriver)
				r.Delete("/bookings/{id}", bookingHandlers.Delete)

				r.Post("/maintenance", maintenanceHandlers.Schedule)
				r.Post("/maintenance/{id}/complete", maintenanceHandlers.Complete)
				r.Post("/maintenance/{id}/cancel", maintenanceHandlers.Cancel)
				r.Delete("/maintenance/{id}", maintenanceHandlers.Delete)

				r.Get("/audit", auditHandlers.List)
			})
		})
	})

	return r
}
