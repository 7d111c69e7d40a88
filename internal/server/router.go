package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/trailtrack/apiserver/config"
	"github.com/trailtrack/apiserver/internal/auth"
	"github.com/trailtrack/apiserver/internal/handlers"
	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
)

// Services holds the use-cases exposed over HTTP. Exports is nil when no
// object storage is configured.
type Services struct {
	Users      *services.UserService
	Accounts   *services.AccountService
	Contacts   *services.ContactService
	Leads      *services.LeadService
	Activities *services.ActivityService
	Tasks      *services.TaskService
	Dashboard  *services.DashboardService
	Exports    *services.ExportService
}

// NewRouter builds the HTTP routes and middleware stack.
func NewRouter(corsCfg config.CORSConfig, tokens *auth.TokenService, svc Services, logger logging.Logger) *chi.Mux {
	if logger == nil {
		logger = logging.Nop()
	}

	authHandler := handlers.NewAuthHandler(svc.Users, tokens, logger)
	authMiddleware := authHandler.RequireAuth

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins:   corsCfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
	})
	router.With(authMiddleware).Get("/me", authHandler.Me)
	router.Route("/dashboard", func(r chi.Router) {
		handlers.DashboardRouter(r, svc.Dashboard, authMiddleware, logger)
	})
	router.Route("/accounts", func(r chi.Router) {
		handlers.AccountRouter(r, svc.Accounts, authMiddleware, logger)
	})
	router.Route("/contacts", func(r chi.Router) {
		handlers.ContactRouter(r, svc.Contacts, authMiddleware, logger)
	})
	router.Route("/leads", func(r chi.Router) {
		handlers.LeadRouter(r, svc.Leads, authMiddleware, logger)
	})
	router.Route("/activities", func(r chi.Router) {
		handlers.ActivityRouter(r, svc.Activities, authMiddleware, logger)
	})
	router.Route("/tasks", func(r chi.Router) {
		handlers.TaskRouter(r, svc.Tasks, authMiddleware, logger)
	})
	if svc.Exports != nil {
		router.Route("/exports", func(r chi.Router) {
			handlers.ExportRouter(r, svc.Exports, authMiddleware, logger)
		})
	}

	return router
}
