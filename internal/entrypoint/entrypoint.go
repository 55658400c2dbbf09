package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/database"
	auditdb "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	http_controllers "github.com/mrlokans/locallibrary/internal/http"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/logging"
	"github.com/mrlokans/locallibrary/internal/middleware"
	"github.com/mrlokans/locallibrary/internal/scheduler"
	"github.com/mrlokans/locallibrary/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewLogger builds the application logger from the configuration.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.IsDevelopment(), "locallibrary")
}

// OpenDatabase opens the catalog database selected by the configuration.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}
	return database.NewDatabase(database.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		URL:      cfg.Database.URL,
		LogLevel: logLevel,
	})
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.Stringer("signal", sig), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Stop background work after in-flight requests have finished
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	log, err := NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting locallibrary", zap.String("version", version), zap.String("env", cfg.Global.Env))
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database ready", zap.String("driver", db.Driver()))

	repo := catalog.NewRepository(db.DB)
	auditService := audit.NewService(auditdb.NewRepository(db.DB), log.Named("audit"))
	defer auditService.Wait()

	// Flash messages live in the catalog database when it is SQLite
	sessions, err := newSessionManager(cfg, db)
	if err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.Security.RateLimitPerMinute > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.Security.RateLimitPerMinute)
		defer rateLimiter.Stop()
	}

	var csrfKey []byte
	if cfg.Security.CSRFSecret != "" {
		csrfKey = middleware.CSRFKey(cfg.Security.CSRFSecret)
	} else {
		log.Warn("CSRF_SECRET is not set, form posts are not CSRF protected")
	}

	var (
		taskClient     *tasks.Client
		taskCancel     context.CancelFunc
		auditScheduler *scheduler.AuditCleanupScheduler
	)
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, log))

		var taskCtx context.Context
		taskCtx, taskCancel = context.WithCancel(context.Background())
		defer taskCancel()
		go taskClient.Start(taskCtx)

		auditScheduler = scheduler.NewAuditCleanupScheduler(
			taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, log)
		if err := auditScheduler.Start(taskCtx); err != nil {
			log.Error("audit cleanup scheduler disabled", zap.Error(err))
			auditScheduler = nil
		}
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Store:         repo,
		Guard:         integrity.NewGuard(repo),
		Audit:         auditService,
		Database:      db,
		Sessions:      sessions,
		Metrics:       middleware.NewMetrics(),
		RateLimiter:   rateLimiter,
		Logger:        log.Named("http"),
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		CSRFKey:       csrfKey,
		SecureCookies: cfg.Security.SecureCookies,
		Development:   cfg.IsDevelopment(),
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	onShutdown := func(ctx context.Context) {
		if auditScheduler != nil {
			auditScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCancel()
		}
	}

	return Serve(router, cfg, log, onShutdown)
}

func newSessionManager(cfg *config.Config, db *database.Database) (*middleware.SessionManager, error) {
	if db.Driver() != database.DriverSQLite {
		return middleware.NewSessionManager(nil, cfg.Session.Lifetime, cfg.Security.SecureCookies)
	}
	sqlDB, err := db.SQLDB()
	if err != nil {
		return nil, err
	}
	return middleware.NewSessionManager(sqlDB, cfg.Session.Lifetime, cfg.Security.SecureCookies)
}
