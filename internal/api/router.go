package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/croco-platform/user-service/docs"
	"github.com/croco-platform/user-service/internal/api/handler"
	"github.com/croco-platform/user-service/internal/api/middleware"
	"github.com/croco-platform/user-service/internal/core/domain"
	"github.com/croco-platform/user-service/internal/core/ports"
	"github.com/croco-platform/user-service/internal/core/service"
	"github.com/croco-platform/user-service/internal/infrastructure/config"
	mongorepo "github.com/croco-platform/user-service/internal/infrastructure/db/mongo"
	redisrepo "github.com/croco-platform/user-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userservice"))

	// --- Dependencies ---
	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	userRepo := mongorepo.NewUserRepository(db)
	userCache := redisrepo.NewUserCache(rdb, cfg.Cache.UserTTL)
	userService := service.NewUserService(userRepo, userCache, publisher, cfg.Kafka.PublishTimeout, log)
	authService := service.NewAuthService(userRepo, tokens)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)

	authed := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/api/login", authHandler.Login)

	// --- User routes ---
	users := e.Group("/api/users")
	users.POST("", userHandler.Create) // public signup
	users.GET("", userHandler.List, authed, middleware.Authorize(domain.OpListUsers))
	users.PUT("/me", userHandler.UpdateMe, authed, middleware.Authorize(domain.OpUpdateSelf))
	users.GET("/:id", userHandler.Get, authed, middleware.Authorize(domain.OpGetUser))
	users.PUT("/:id", userHandler.Update, authed, middleware.Authorize(domain.OpUpdateUser))
	users.DELETE("/:id", userHandler.Delete, authed, middleware.Authorize(domain.OpDeleteUser))

	// --- Admin routes ---
	e.GET("/api/admin/users", userHandler.List, authed, middleware.RequireRoles(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
