package router

import (
	"time"

	"apostila-ai/backend/internal/api"
	"apostila-ai/backend/pkg/config"
	"apostila-ai/backend/pkg/di"
	"apostila-ai/backend/pkg/errors"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Order matters: ids first, then the logger that reads them
	engine.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(secureHeaders())
	engine.Use(corsMiddleware(cfg.Security.AllowedOrigins))

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	healthHandler := r.Container.Health.Handler()
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)
	r.Engine.GET("/metrics", gin.WrapH(r.Container.MetricsHandler))

	apiGroup := r.Engine.Group("/api")

	rateLimiter := middleware.NewRateLimiter(r.Logger, r.Container.RateLimitStore, r.Container.RateLimiterOptions())
	apiGroup.Use(rateLimiter.Middleware())

	if r.Config.OpenAPI.SchemaPath != "" {
		r.AddOpenAPIValidation(apiGroup, r.Config.OpenAPI.SchemaPath)
	}

	api.NewChatHandler(r.Container.ChatService).RegisterRoutes(apiGroup)
	api.NewExerciseHandler(r.Container.ExerciseService).RegisterRoutes(apiGroup)

	defaults := r.Container.DefaultIdentity()
	api.NewTutorHandler(r.Container.TutorService, defaults).
		RegisterRoutes(apiGroup, middleware.Identity(r.Container.JWTService, defaults))
}

// secureHeaders sets the browser hardening headers. TLS is terminated upstream.
func secureHeaders() gin.HandlerFunc {
	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.ContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
	return secure.New(secureConfig)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 24 * time.Hour
	return cors.New(corsConfig)
}
