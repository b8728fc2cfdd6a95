package http

import (
	"net/http"

	"github.com/beaware-fyi/beaware-api/internal/application/consolidated"
	"github.com/beaware-fyi/beaware-api/internal/application/notification"
	"github.com/beaware-fyi/beaware-api/internal/application/report"
	"github.com/beaware-fyi/beaware-api/internal/application/session"
	"github.com/beaware-fyi/beaware-api/internal/application/user"
	"github.com/beaware-fyi/beaware-api/internal/config"
	"github.com/beaware-fyi/beaware-api/internal/domain"
	jwtinfra "github.com/beaware-fyi/beaware-api/internal/infrastructure/jwt"
	"github.com/beaware-fyi/beaware-api/internal/transport/http/handler"
	appmiddleware "github.com/beaware-fyi/beaware-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	SessionRepo      SessionRepository
	ReportRepo       ReportRepository
	NotificationRepo NotificationRepository
	// Alerts may be nil; report creation then skips moderation alerting.
	Alerts      AlertPublisher
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenDur,
	})
	userSvc := user.NewService(deps.UserRepo)
	reportSvc := report.NewService(report.ServiceDeps{
		ReportRepo:       deps.ReportRepo,
		NotificationRepo: deps.NotificationRepo,
		Alerts:           deps.Alerts,
	})
	consolidatedSvc := consolidated.NewService(deps.ReportRepo)
	notifSvc := notification.NewService(deps.NotificationRepo)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	reportH := handler.NewReportHandler(reportSvc)
	consolidatedH := handler.NewConsolidatedHandler(consolidatedSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/register", userH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", sessionH.Login)
		r.Post("/auth/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/auth/check-username", userH.CheckUsername)
		r.With(sensitiveRL.Limit).Post("/auth/update-username", userH.UpdateUsername)

		// The consolidated projection and report reads are public so the
		// lookup UI works without an account.
		r.Get("/consolidated-scams", consolidatedH.List)
		r.Get("/consolidated-scams/{id}", consolidatedH.Get)
		r.Get("/scam-reports", reportH.List)
		r.Get("/scam-reports/{id}", reportH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/auth/logout", sessionH.Logout)

			r.Post("/scam-reports", reportH.Create)
			r.Get("/users/{id}", userH.Get)
			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Put("/scam-reports/{id}/verify", reportH.Verify)
			})
		})
	})

	return r
}
