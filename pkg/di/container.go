package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/internal/repository"
	"apostila-ai/backend/internal/service"
	"apostila-ai/backend/pkg/config"
	"apostila-ai/backend/pkg/health"
	"apostila-ai/backend/pkg/jwt"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/pkg/middleware"
	"apostila-ai/backend/pkg/resilience"
	"apostila-ai/backend/pkg/secrets"
	"apostila-ai/backend/shared/observability"
	redisclient "apostila-ai/backend/shared/redis"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	Config         *config.Config
	Logger         *logger.Logger
	Secrets        *secrets.VaultManager
	DB             *gorm.DB
	Redis          *redisclient.RedisClient
	JWTService     *jwt.Service
	Metrics        *observability.Metrics
	MetricsHandler http.Handler
	Health         *health.Checker
	RateLimitStore middleware.RateLimitStore

	Resolver           chatvolt.Resolver
	ChatvoltClient     *chatvolt.Client
	QuestionStore      repository.QuestionStore
	ChatService        *service.ChatService
	ExerciseService    *service.ExerciseService
	ConversationLogger *service.ConversationLogger
	TutorService       *service.TutorService

	closers []func(context.Context) error
}

// DefaultIdentity is the student logged when a request carries no token
func (c *Container) DefaultIdentity() models.Identity {
	return models.Identity{
		Name:  c.Config.Identity.Name,
		Email: c.Config.Identity.Email,
		Class: c.Config.Identity.Class,
	}
}

// New wires every dependency from cfg
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	shutdownTracing, err := observability.SetupTracing(cfg.Tracing.ServiceName, cfg.Tracing.Enabled)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, shutdownTracing)

	meterProvider, metricsHandler, err := observability.SetupPrometheusMetrics()
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, meterProvider.Shutdown)
	c.MetricsHandler = metricsHandler

	c.Metrics, err = observability.NewMetrics(meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	c.Secrets, err = secrets.NewVaultManager(secrets.VaultConfigFromEnv(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}
	c.Resolver = chatvolt.NewSecretsResolver(c.Secrets)
	if cfg.Chatvolt.CredentialsTTL > 0 {
		c.Resolver = chatvolt.NewCachingResolver(c.Resolver, cfg.Chatvolt.CredentialsTTL)
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Chatvolt.CircuitBreaker {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultConfig("chatvolt"), log)
	}
	c.ChatvoltClient = chatvolt.NewClient(chatvolt.ClientConfig{
		Timeout: cfg.Chatvolt.Timeout,
		Breaker: breaker,
	}, log)

	c.JWTService = jwt.NewService(cfg.Security.JWTSecret, cfg.Security.JWTExpiry)

	if err := c.setupQuestionStore(); err != nil {
		c.Close(context.Background())
		return nil, err
	}
	c.setupRateLimitStore()

	c.ChatService = service.NewChatService(c.Resolver, c.ChatvoltClient, c.Metrics,
		service.ChatServiceConfig{ExposeRawReply: cfg.Chatvolt.ExposeRawReply}, log)
	c.ExerciseService = service.NewExerciseService(c.Resolver, c.ChatvoltClient, c.Metrics, log)
	c.ConversationLogger = service.NewConversationLogger(c.QuestionStore, c.Metrics, log)
	c.TutorService = service.NewTutorService(c.ChatService, c.ConversationLogger)

	c.setupHealth()

	return c, nil
}

func (c *Container) setupQuestionStore() error {
	switch c.Config.ConversationLog.Backend {
	case repository.BackendSupabase:
		c.QuestionStore = repository.NewSupabaseQuestionStore(repository.SupabaseConfig{
			URL:     c.Config.Supabase.URL,
			AnonKey: c.Config.Supabase.AnonKey,
			Table:   c.Config.Supabase.Table,
		})
	case repository.BackendPostgres:
		db, err := config.NewDB(c.Config)
		if err != nil {
			return err
		}
		c.DB = db
		c.closers = append(c.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		store := repository.NewGormQuestionStore(db, c.Logger)
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate conversation log: %w", err)
		}
		c.QuestionStore = store
	case repository.BackendNone, "":
		c.QuestionStore = repository.NopQuestionStore{}
	default:
		return fmt.Errorf("unknown conversation log backend %q", c.Config.ConversationLog.Backend)
	}

	c.Logger.Info("conversation log ready", "backend", c.Config.ConversationLog.Backend)
	return nil
}

func (c *Container) setupRateLimitStore() {
	if c.Config.Security.RateLimitBackend == middleware.RateLimitRedis {
		c.Redis = redisclient.NewRedisClient(redisclient.Options{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		c.closers = append(c.closers, func(context.Context) error { return c.Redis.Close() })
		c.RateLimitStore = middleware.NewRedisStore(c.Redis, c.Config.Security.RateLimitBurst, time.Second)
		return
	}

	opts := c.RateLimiterOptions()
	store := middleware.NewMemoryStore(opts)
	ctx, cancel := context.WithCancel(context.Background())
	go store.Cleanup(ctx)
	c.closers = append(c.closers, func(context.Context) error { cancel(); return nil })
	c.RateLimitStore = store
}

// RateLimiterOptions derives the limiter settings from the configuration
func (c *Container) RateLimiterOptions() middleware.RateLimiterOptions {
	opts := middleware.DefaultRateLimiterOptions()
	opts.Limit = rate.Limit(c.Config.Security.RateLimit)
	opts.Burst = c.Config.Security.RateLimitBurst
	return opts
}

func (c *Container) setupHealth() {
	c.Health = health.NewChecker(c.Logger, c.Config.Server.Version, 30*time.Second)

	c.Health.RegisterCheck("chatvolt-config", false, func(ctx context.Context) (health.Status, string, error) {
		if _, err := c.Resolver.Resolve(ctx); err != nil {
			return health.StatusDegraded, "Chatvolt credentials are missing", err
		}
		return health.StatusUp, "Chatvolt credentials are configured", nil
	})

	if c.DB != nil {
		c.Health.RegisterPingCheck("database", true, func(ctx context.Context) error {
			return config.TestConnection(ctx, c.DB)
		})
	}
	if c.Redis != nil {
		c.Health.RegisterPingCheck("redis", false, c.Redis.Ping)
	}
	if c.Secrets.Enabled() {
		c.Health.RegisterPingCheck("vault", false, c.Secrets.Ping)
	}
}

// Close releases every resource opened by New
func (c *Container) Close(ctx context.Context) error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
