package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glowsalon/loyalty-platform/internal/appointments"
	"github.com/glowsalon/loyalty-platform/internal/auth"
	httpmiddleware "github.com/glowsalon/loyalty-platform/internal/http/middleware"
	"github.com/glowsalon/loyalty-platform/internal/profiles"
	"github.com/glowsalon/loyalty-platform/internal/referrals"
	"github.com/glowsalon/loyalty-platform/internal/rewards"
	"github.com/glowsalon/loyalty-platform/internal/services"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	TokenIssuer         *auth.TokenIssuer
	AuthHandler         *auth.Handler
	AppointmentsHandler *appointments.Handler
	ServicesHandler     *services.Handler
	ProfilesHandler     *profiles.Handler
	RewardsHandler      *rewards.Handler
	ReferralsHandler    *referrals.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// RateLimitPerSecond <= 0 disables rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.Session(cfg.TokenIssuer))
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/signin", cfg.AuthHandler.Signin)
		r.Post("/signout", cfg.AuthHandler.Signout)
		r.With(httpmiddleware.RequireAuth).Get("/me", cfg.AuthHandler.Me)
	})

	r.Route("/api/citas", func(r chi.Router) {
		r.Use(httpmiddleware.RequireAuth)
		r.Get("/", cfg.AppointmentsHandler.List)
		r.Get("/proximas", cfg.AppointmentsHandler.ListUpcoming)
		r.Get("/pendientes", cfg.AppointmentsHandler.ListOpen)
		r.Post("/", cfg.AppointmentsHandler.Create)
		r.Patch("/{id}", cfg.AppointmentsHandler.Patch)
		r.With(httpmiddleware.RequireAdmin).Delete("/{id}", cfg.AppointmentsHandler.Delete)
	})

	r.Route("/api/servicios", func(r chi.Router) {
		r.Get("/", cfg.ServicesHandler.List)
		r.Get("/{id}", cfg.ServicesHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.RequireAdmin)
			r.Post("/", cfg.ServicesHandler.Create)
			r.Patch("/{id}", cfg.ServicesHandler.Update)
			r.Delete("/{id}", cfg.ServicesHandler.Delete)
		})
	})

	r.Route("/api/profiles", func(r chi.Router) {
		r.Use(httpmiddleware.RequireAuth)
		r.With(httpmiddleware.RequireAdmin).Get("/", cfg.ProfilesHandler.List)
		r.Get("/{id}", cfg.ProfilesHandler.Get)
		r.Patch("/{id}", cfg.ProfilesHandler.Update)
	})

	r.Route("/api/puntos", func(r chi.Router) {
		r.Use(httpmiddleware.RequireAuth)
		r.Get("/top", cfg.ProfilesHandler.TopPoints)
		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.RequireAdmin)
			r.Post("/sumar", cfg.ProfilesHandler.CreditPoints)
			r.Post("/restar", cfg.ProfilesHandler.DebitPoints)
		})
	})

	r.Route("/api/premios", func(r chi.Router) {
		r.Get("/", cfg.RewardsHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.RequireAdmin)
			r.Post("/", cfg.RewardsHandler.Create)
			r.Patch("/{id}", cfg.RewardsHandler.Update)
			r.Delete("/{id}", cfg.RewardsHandler.Delete)
		})
	})

	r.Route("/api/referidos", func(r chi.Router) {
		r.Use(httpmiddleware.RequireAuth)
		r.Get("/", cfg.ReferralsHandler.List)
		r.With(httpmiddleware.RequireAdmin).Post("/", cfg.ReferralsHandler.Create)
	})

	return r
}
