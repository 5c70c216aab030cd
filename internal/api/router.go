package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/workspacehub/workspace-api/internal/api/handler"
	"github.com/workspacehub/workspace-api/internal/api/middleware"
	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
	"github.com/workspacehub/workspace-api/internal/core/service"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Log      zerolog.Logger
	Strategy ports.AuthStrategy
	Resolver ports.AdminResolver
	Observer ports.AuthObserver
	// Auth serves local-account login. Nil outside symmetric-jwt mode.
	Auth   ports.AuthService
	Apps   ports.AppService
	Health map[string]handler.HealthCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	observer := deps.Observer
	if observer == nil {
		observer = ports.NopAuthObserver{}
	}
	authenticate := middleware.Authenticate(deps.Strategy, deps.Resolver, observer)
	requireAdmin := middleware.RequireAdmin(observer)

	authHandler := loginHandler(deps)
	appHandler := handler.NewAppHandler(deps.Apps)
	adminHandler := handler.NewAdminHandler(deps.Apps)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// --- Public ---
	e.GET("/api/health", healthHandler.Liveness)
	e.GET("/api/health/ready", healthHandler.Readiness)
	if authHandler != nil {
		e.POST("/api/auth/login", authHandler.Login)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated ---
	api := e.Group("/api", authenticate)
	api.GET("/auth/me", handler.NewAuthHandler(deps.Auth).Me)

	dashboard := api.Group("", middleware.RequireRole(domain.RoleUser, domain.RoleAdmin))
	dashboard.GET("/apps", appHandler.List)
	dashboard.POST("/apps/:id/favorite", appHandler.ToggleFavorite)
	dashboard.GET("/metrics/:id", appHandler.Metric)

	// --- Admin ---
	admin := e.Group("/admin", authenticate, requireAdmin)
	admin.GET("/config", adminHandler.Config)
	admin.GET("/apps", adminHandler.ListApps)
	admin.POST("/apps", adminHandler.CreateApp)
	admin.PUT("/apps/:id", adminHandler.UpdateApp)
	admin.DELETE("/apps/:id", adminHandler.DeleteApp)
	admin.GET("/categories", adminHandler.ListCategories)
	admin.POST("/categories", adminHandler.CreateCategory)
	admin.PUT("/categories/:id", adminHandler.UpdateCategory)
	admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
	admin.POST("/users", handler.NewAuthHandler(deps.Auth).CreateUser)

	return e
}

// loginHandler picks the login flavour for the active strategy. Asymmetric
// mode has no login route: tokens come from the identity provider.
func loginHandler(deps Dependencies) *handler.AuthHandler {
	if mock, ok := deps.Strategy.(*service.MockStrategy); ok {
		return handler.NewMockAuthHandler(mock.Token())
	}
	if deps.Auth != nil {
		return handler.NewAuthHandler(deps.Auth)
	}
	return nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			entry := log.Info()
			if v.Error != nil {
				entry = log.Warn().Err(v.Error)
			}
			entry.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
