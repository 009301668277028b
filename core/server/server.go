package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calendar-api/core/cache"
	"calendar-api/core/config"
	"calendar-api/core/controller"
	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/core/middleware"
	"calendar-api/core/queue"
	"calendar-api/core/storage"
	"calendar-api/core/utils"
	accessRepository "calendar-api/modules/access/repository"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/auth"
	"calendar-api/modules/calendar"
	"calendar-api/modules/category"
	"calendar-api/modules/event"
	"calendar-api/modules/invitation"
	invitationService "calendar-api/modules/invitation/service"
	"calendar-api/modules/notification"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 15 * time.Second

// App holds the long-lived dependencies shared by the HTTP server.
type App struct {
	Config   *config.Config
	DB       database.IDatabase
	Cache    cache.Cache
	Enqueuer queue.Enqueuer
	Store    storage.ObjectStore
	Clock    utils.Clock
}

// Run starts the HTTP API and blocks until SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	configureTokens(cfg)

	ctx := context.Background()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisCache.Close()

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		if !stderrors.Is(err, storage.ErrNotConfigured) {
			return err
		}
		logger.Warn("Object storage disabled, calendar publishing unavailable")
	}

	e := NewRouter(&App{
		Config:   cfg,
		DB:       db,
		Cache:    redisCache,
		Enqueuer: queueClient,
		Store:    store,
		Clock:    utils.SystemClock(),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Server.Address(), "env", cfg.Server.Env)
		if err := e.Start(cfg.Server.Address()); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// NewRouter builds the echo instance with every module mounted under /api/v1.
func NewRouter(app *App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = controller.HTTPErrorHandler

	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(requestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/api/v1")
	mw := middleware.NewMiddleware(app.Cache)
	access := accessService.NewAccessService(accessRepository.NewAccessRepository(app.DB))

	auth.Init(v1, app.DB, app.Cache, mw, app.Clock)
	notificationService := notification.Init(v1, app.DB, mw)
	category.Init(v1, app.DB, mw, access)
	_, eventRepository := event.Init(v1, app.DB, mw, access)
	calendar.Init(v1, app.DB, mw, calendar.Options{
		Access:   access,
		Events:   eventRepository,
		Notifier: notificationService,
		Store:    app.Store,
		Clock:    app.Clock,
	})
	invitation.Init(v1, app.DB, mw, invitation.Options{
		Access:   access,
		Enqueuer: app.Enqueuer,
		Notifier: notificationService,
		Clock:    app.Clock,
		Settings: inviteSettings(app.Config),
	})

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.Error("HTTP:Request", append(args, "error", v.Error)...)
				return nil
			}
			logger.Info("HTTP:Request", args...)
			return nil
		},
	})
}

func configureTokens(cfg *config.Config) {
	utils.ConfigureTokens(utils.TokenSettings{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
}

func inviteSettings(cfg *config.Config) invitationService.Settings {
	return invitationService.Settings{
		EmailExpireDays: cfg.Invite.EmailExpireDays,
		LinkBaseURL:     linkBaseURL(cfg),
	}
}

// linkBaseURL is where invite URLs point: the configured invite base, then the frontend, then the API.
func linkBaseURL(cfg *config.Config) string {
	switch {
	case cfg.Invite.LinkBaseURL != "":
		return cfg.Invite.LinkBaseURL
	case cfg.Server.FrontendURL != "":
		return cfg.Server.FrontendURL
	default:
		return cfg.Server.PublicBaseURL()
	}
}
