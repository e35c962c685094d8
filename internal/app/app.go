package app

import (
	"context"
	"fmt"
	"os"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/leetcoach-backend/internal/data/catalog"
	"github.com/yungbote/leetcoach-backend/internal/data/db"
	"github.com/yungbote/leetcoach-backend/internal/http"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clock    clock.Clock
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// Open loads config and connects to Postgres. It does not migrate or wire
// services; callers that only need the schema stop here.
func Open() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log, cfg.PostgresDSN)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()

	return &App{
		Log:   log,
		DB:    theDB,
		Cfg:   cfg,
		Clock: clock.New(),
		Repos: wireRepos(theDB, log),
		pg:    pg,
	}, nil
}

// New opens the app, migrates, seeds the catalog and wires the HTTP stack.
func New(ctx context.Context) (*App, error) {
	a, err := Open()
	if err != nil {
		return nil, err
	}
	if err := a.Migrate(); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.Seed(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.Wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Migrate() error {
	a.Log.Info("Running migrations...")
	if err := db.AutoMigrateAll(a.DB); err != nil {
		return fmt.Errorf("postgres automigrate: %w", err)
	}
	return nil
}

// Seed upserts the embedded learning paths and objective templates.
func (a *App) Seed(ctx context.Context) error {
	c, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if err := catalog.Seed(dbctx.Context{Ctx: ctx}, a.Log, c, a.Repos.Path, a.Repos.Template); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

// Wire builds clients, services, handlers and the router.
func (a *App) Wire(ctx context.Context) error {
	clients, err := wireClients(ctx, a.Log, a.Cfg, a.Clock)
	if err != nil {
		return err
	}
	a.Clients = clients
	a.Services = wireServices(a.Log, a.Cfg, a.Repos, a.Clients, a.Clock)

	a.Metrics = observability.Init(a.Log)
	if a.Cfg.OtelEnabled {
		a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
			ServiceName: a.Cfg.ServiceName,
			Environment: a.Cfg.Environment,
			Version:     a.Cfg.Version,
			Endpoint:    a.Cfg.OtelEndpoint,
			Headers:     a.Cfg.OtelHeaders,
			Insecure:    a.Cfg.OtelInsecure,
			SampleRatio: a.Cfg.OtelSampleRatio,
		})
	}

	handlerset := wireHandlers(a.Log, a.DB, a.Services)
	middleware := wireMiddleware(a.Log, a.Cfg)
	a.Router = wireRouter(a.Log, a.Cfg, a.Metrics, handlerset, middleware)
	return nil
}

// Start launches the background metric collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return (&http.Server{Engine: a.Router}).Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	a.Clients.Close()
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("postgres close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
