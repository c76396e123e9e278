package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/santai-app/santai-backend/api/controllers"
	"github.com/santai-app/santai-backend/api/middleware"
	"github.com/santai-app/santai-backend/internal/auth"
	"github.com/santai-app/santai-backend/internal/notifications"
	"github.com/santai-app/santai-backend/internal/payments"
	"github.com/santai-app/santai-backend/internal/signups"
	"github.com/santai-app/santai-backend/pkg/auth/session"
	"github.com/santai-app/santai-backend/pkg/config"
	"github.com/santai-app/santai-backend/pkg/db"
	"github.com/santai-app/santai-backend/pkg/enums"
	"github.com/santai-app/santai-backend/pkg/logger"
	redisclient "github.com/santai-app/santai-backend/pkg/redis"
	"github.com/santai-app/santai-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redisclient.Client
	GCS            gcs.Pinger
	SessionManager sessionManager
	AuthService    auth.Service
	SignupService  signups.Service
	PaymentService payments.Service
	Notifications  notifications.Service
	MetricsHandler http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1/signups", func(r chi.Router) {
		r.Post("/", controllers.SignupInitialize(deps.SignupService, logg))
		r.Route("/{signupId}", func(r chi.Router) {
			r.Get("/", controllers.SignupDetail(deps.SignupService, logg))
			r.Get("/remaining-time", controllers.SignupRemainingTime(deps.SignupService, logg))
			r.Post("/accept-terms", controllers.SignupAcceptTerms(deps.SignupService, logg))
			r.Post("/portal", controllers.SignupSelectPortal(deps.SignupService, logg))
			r.Post("/account", controllers.SignupCreateAccount(deps.SignupService, logg))
			r.Post("/complete-profile", controllers.SignupCompleteProfile(deps.SignupService, logg))
			r.Post("/go-live", controllers.SignupGoLive(deps.SignupService, logg))
			r.Post("/payment-proof/presign", controllers.SignupPresignPaymentProof(deps.PaymentService, logg))
			r.Post("/payment-proof", controllers.SignupUploadPaymentProof(deps.SignupService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/v1/auth/login", controllers.AdminAuthLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))

			r.Route("/v1/payments", func(r chi.Router) {
				r.Get("/pending", controllers.AdminPendingPayments(deps.SignupService, logg))
				r.Get("/{submissionId}/proof-url", controllers.AdminPaymentProofURL(deps.SignupService, deps.PaymentService, logg))
				r.Post("/{submissionId}/approve", controllers.AdminApprovePayment(deps.SignupService, logg))
				r.Post("/{submissionId}/reject", controllers.AdminRejectPayment(deps.SignupService, logg))
			})

			r.Route("/v1/signups", func(r chi.Router) {
				r.Get("/", controllers.AdminListSignups(deps.SignupService, logg))
				r.Get("/{signupId}", controllers.AdminSignupDetail(deps.SignupService, logg))
				r.Post("/{signupId}/deactivate", controllers.AdminDeactivateSignup(deps.SignupService, logg))
			})

			r.Route("/v1/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
			})
		})
	})

	return r
}
