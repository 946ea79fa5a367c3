package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"booking-api/internal/config"
	"booking-api/internal/handler"
	"booking-api/internal/metrics"
	"booking-api/internal/middleware"
	"booking-api/internal/model"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Appointment *handler.AppointmentHandler
	Service     *handler.ServiceHandler
	Audit       *handler.AuditHandler
	Docs        *handler.DocsHandler
	Health      *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	var observer middleware.RequestObserver
	if m != nil {
		observer = m
	}

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(observer))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Health)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	authenticated := authMiddleware.RequireAuth
	asUser := middleware.RequireRoles(model.RoleUser)
	asAdmin := middleware.RequireRoles(model.RoleAdmin)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", h.Auth.Register)
			users.Post("/login", h.Auth.Login)
			users.Post("/reset-password", h.Auth.ResetPassword)
			users.With(authenticated).Put("/update-profile", h.User.UpdateProfile)

			users.With(authenticated, asUser).Get("/", h.User.Me)
			users.With(authenticated, asUser).Get("/appointments/{id}", h.User.Appointments)
			users.With(authenticated, asUser).Delete("/{id}", h.User.Delete)

			users.Route("/admin", func(admin chi.Router) {
				admin.Use(authenticated, asAdmin)
				admin.Get("/", h.User.AdminWelcome)
				admin.Get("/users", h.User.List)
				admin.Get("/user-stats", h.User.Stats)
				admin.Put("/users/{id}/role", h.User.UpdateRole)
				admin.Delete("/users/{id}", h.User.Delete)
			})
		})

		api.Route("/appointments", func(appointments chi.Router) {
			appointments.Use(authenticated)
			appointments.Post("/", h.Appointment.Create)
			appointments.With(asAdmin).Get("/", h.Appointment.List)
			appointments.Get("/{id}", h.Appointment.Get)
			appointments.Put("/{id}", h.Appointment.UpdateStatus)
			appointments.Delete("/{id}", h.Appointment.Delete)
		})

		api.Route("/services", func(services chi.Router) {
			services.Use(authenticated)
			services.Get("/", h.Service.List)
			services.Get("/{id}", h.Service.Get)
			services.With(asAdmin).Post("/", h.Service.Create)
			services.With(asAdmin).Put("/{id}", h.Service.Update)
			services.With(asAdmin).Delete("/{id}", h.Service.Delete)
		})

		api.With(authenticated, asAdmin).Get("/audit", h.Audit.List)
	})

	return r
}
