package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/auth"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/config"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/delivery/httpd"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/middleware"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/repository"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service/integration"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/storage"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	publisher := newPublisher(cfg.RabbitMQ, log)

	studentRepo := repository.NewStudentRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	topicRepo := repository.NewTopicRepository(db, log)
	weekRepo := repository.NewWeekRepository(db, log)

	hasher := auth.NewPasswordHasher(bcrypt.DefaultCost)

	services := httpd.Services{
		Students:    service.NewStudentService(studentRepo, hasher, publisher, log),
		Assignments: service.NewAssignmentService(assignmentRepo, publisher, log),
		Topics:      service.NewTopicService(topicRepo, publisher, log),
		Weeks:       service.NewWeekService(weekRepo, publisher, log),
	}

	tokens, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	switch {
	case err == nil:
		services.Auth, err = service.NewAuthService(studentRepo, tokens, hasher, service.AdminCredentials{
			Username:     cfg.Auth.AdminUsername,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		}, log)
		if err != nil {
			return nil, err
		}
	case cfg.Auth.Enabled:
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	default:
		log.Warn().Err(err).Msg("Token manager unavailable, login disabled")
		services.Auth = disabledAuth{}
	}

	healthChecks := []httpd.HealthCheck{
		{Name: "database", Required: true, Ping: db.PingContext},
	}

	if cfg.Storage.Enabled {
		objects, err := storage.NewMinIOStorage(cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		services.Attachments = service.NewAttachmentService(objects, cfg.Storage.MaxUploadSize, log)
		healthChecks = append(healthChecks, httpd.HealthCheck{Name: "storage", Ping: objects.Ping})
	}

	// A nil interface, not a nil *JWTManager, switches the guard off.
	var validator middleware.TokenValidator
	if cfg.Auth.Enabled {
		validator = tokens
	} else {
		log.Warn().Msg("Authentication disabled; admin routes are open")
	}

	handler := httpd.NewHandler(services, httpd.Options{
		Tokens:        validator,
		RateLimit:     cfg.RateLimit,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
		HealthChecks:  healthChecks,
	}, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      NewRouter(cfg, handler, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

// NewRouter builds the middleware chain and mounts the API.
func NewRouter(cfg *config.Config, handler *httpd.Handler, log zerolog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.CleanPath)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics)
	router.Use(middleware.NewCORS(cfg.CORS))
	router.Use(middleware.Options)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	handler.RegisterRoutes(router)

	return router
}

func newPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) integration.EventPublisher {
	if !cfg.Enabled {
		return integration.NewNoopPublisher(log)
	}

	publisher, err := integration.NewRabbitMQPublisher(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to RabbitMQ, domain events disabled")
		return integration.NewNoopPublisher(log)
	}
	return publisher
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting course portal on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down course portal...")

	err := a.server.Shutdown(ctx)

	if a.publisher != nil {
		if cerr := a.publisher.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close event publisher")
		}
	}

	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close database connection")
		}
	}

	return err
}

// disabledAuth rejects every login when no signing secret is configured.
type disabledAuth struct{}

func (disabledAuth) Login(context.Context, *models.LoginRequest) (*models.LoginResponse, error) {
	return nil, service.ErrInvalidCredentials
}
