package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/config"
	"github.com/trailtrack/apiserver/internal/auth"
	"github.com/trailtrack/apiserver/internal/db"
	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/mq"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/internal/storage"
	"github.com/trailtrack/apiserver/internal/store"
)

const backendNone = "none"

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	logger     logging.Logger
}

// New connects to the database and the optional storage and queue
// backends, and builds the HTTP server.
func New(ctx context.Context, cfg config.Config, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Auth.InsecureSecret {
		logger.Warn(ctx, "SECRET_KEY is not set; using the development secret, do not run this in production")
	}
	tokens := auth.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	events := services.NopEventPublisher()
	var queue *mq.MQ
	if cfg.MQ.Backend != backendNone {
		queue, err = mq.Open(ctx, cfg.MQ)
		if err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("open mq: %w", err)
		}
		events = services.NewEventPublisher(queue, cfg.MQ.Channel, logger)
		logger.Info(ctx, "record events enabled", "backend", cfg.MQ.Backend, "channel", cfg.MQ.Channel)
	}

	accountRepo := store.NewAccountRepository(dbConn)
	contactRepo := store.NewContactRepository(dbConn)
	leadRepo := store.NewLeadRepository(dbConn)
	activityRepo := store.NewActivityRepository(dbConn)
	taskRepo := store.NewTaskRepository(dbConn)
	refs := services.References{Accounts: accountRepo, Contacts: contactRepo, Leads: leadRepo}

	svc := Services{
		Users:      services.NewUserService(store.NewUserRepository(dbConn)),
		Accounts:   services.NewAccountService(accountRepo, events),
		Contacts:   services.NewContactService(contactRepo, refs, events),
		Leads:      services.NewLeadService(leadRepo, refs, events),
		Activities: services.NewActivityService(activityRepo, refs, events),
		Tasks:      services.NewTaskService(taskRepo, events),
		Dashboard:  services.NewDashboardService(store.NewStatsRepository(dbConn)),
	}

	if cfg.Storage.Backend != backendNone {
		objects, err := storage.Open(ctx, cfg.Storage)
		if err == nil {
			err = objects.EnsureBucket(ctx)
		}
		if err != nil {
			_ = dbConn.Close()
			if queue != nil {
				_ = queue.Close()
			}
			return nil, fmt.Errorf("open storage: %w", err)
		}
		svc.Exports = services.NewExportService(objects, services.ExportSources{
			Accounts:   accountRepo,
			Contacts:   contactRepo,
			Leads:      leadRepo,
			Activities: activityRepo,
			Tasks:      taskRepo,
		})
		logger.Info(ctx, "record exports enabled", "backend", cfg.Storage.Backend, "bucket", objects.Bucket())
	}

	router := NewRouter(cfg.CORS, tokens, svc, logger)

	port := cfg.ServerPort
	if port == 0 {
		port = 8001
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the queue and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		if qerr := s.queue.Close(); qerr != nil {
			s.logger.Warn(ctx, "close mq", "error", qerr)
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
