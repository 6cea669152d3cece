package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/retailops/user-management/internal/api/handler"
	"github.com/retailops/user-management/internal/api/middleware"
	"github.com/retailops/user-management/internal/core/domain"
	"github.com/retailops/user-management/internal/core/service"
	"github.com/retailops/user-management/internal/infrastructure/config"
	"github.com/retailops/user-management/internal/infrastructure/db/postgres"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORS.Origin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.RateLimit(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	userService := service.NewUserService(userRepo, service.NewBcryptHasher(), log)
	userHandler := handler.NewUserHandler(userService)

	// --- User routes ---
	// Authentication is a boundary concern only: when disabled, every route
	// is open; when enabled, mutating routes additionally require ADMIN.
	users := e.Group("/api/users")
	var adminOnly []echo.MiddlewareFunc
	if cfg.Auth.Enabled {
		users.Use(middleware.Auth(cfg.Auth.JWTSecret))
		adminOnly = append(adminOnly, middleware.RBAC(string(domain.RoleAdmin)))
	}

	users.GET("", userHandler.List)
	users.GET("/id/:id", userHandler.GetByID)
	users.GET("/username/:username", userHandler.GetByUsername)
	users.GET("/search", userHandler.SearchByName)
	users.POST("", userHandler.Create, adminOnly...)
	users.PUT("/:id", userHandler.Update, adminOnly...)
	users.DELETE("/:id", userHandler.Delete, adminOnly...)
	users.PATCH("/:id/change-password", userHandler.ChangePassword)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
