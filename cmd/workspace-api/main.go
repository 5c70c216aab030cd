// @title           Workspace API
// @version         1.0
// @description     Workspace dashboard backend: app catalogue, favourites and admin console behind a pluggable bearer-token auth core.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer token: "Bearer <token>"
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/workspacehub/workspace-api/docs"
	"github.com/workspacehub/workspace-api/internal/api"
	"github.com/workspacehub/workspace-api/internal/api/handler"
	"github.com/workspacehub/workspace-api/internal/api/middleware"
	"github.com/workspacehub/workspace-api/internal/core/ports"
	"github.com/workspacehub/workspace-api/internal/core/service"
	"github.com/workspacehub/workspace-api/internal/infrastructure/config"
	mongodb "github.com/workspacehub/workspace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/workspacehub/workspace-api/internal/infrastructure/db/redis"
	"github.com/workspacehub/workspace-api/internal/infrastructure/db/sqlite"
	"github.com/workspacehub/workspace-api/internal/infrastructure/queue"
	"github.com/workspacehub/workspace-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		// The logger may not be initialised yet.
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("workspace-api stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "workspace-api",
	})

	// --- Auth core ---
	strategy, err := service.NewStrategy(cfg.StrategyConfig())
	if err != nil {
		return err
	}
	if cfg.AuthMode() == service.ModeMock {
		log.Warn().Msg("mock authentication enabled; never use outside development")
	}

	allow, err := service.LoadAllowList(cfg.Auth.AdminUsersPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", cfg.Auth.AdminUsersPath).Msg("admin allow-list not found, no users will be elevated")
	case err != nil:
		return err
	}
	resolver := service.NewAdminResolver(allow)

	// --- Storage ---
	catalogue, err := sqlite.Open(ctx, cfg.SQLite.Path, log)
	if err != nil {
		return err
	}
	defer catalogue.Close()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Audit pipeline ---
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	observer := middleware.NewAuditObserver(logger.Component("auth"), dispatcher)

	// --- Services ---
	var authService ports.AuthService
	if cfg.AuthMode() == service.ModeSymmetricJWT {
		svc, err := service.NewAuthService(mongodb.NewAccountRepository(db), resolver, cfg.TokenIssuerConfig())
		if err != nil {
			return err
		}
		authService = svc
	}
	appService := service.NewAppService(sqlite.NewAppRepository(catalogue), redisdb.NewFavoriteStore(rdb), logger.Component("apps"))

	e := api.NewRouter(api.Dependencies{
		Log:      log,
		Strategy: strategy,
		Resolver: resolver,
		Observer: observer,
		Auth:     authService,
		Apps:     appService,
		Health: map[string]handler.HealthCheck{
			"sqlite":  catalogue.Ping,
			"mongodb": mongodb.Ping(db),
			"redis":   redisdb.Ping(rdb),
		},
	})

	log.Info().
		Str("port", cfg.Port).
		Str("auth_mode", strategy.Name()).
		Int("admins", allow.Len()).
		Msg("starting workspace-api")

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
