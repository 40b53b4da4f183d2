package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port     string
		GRPCPort string
		Env      string
		Version  string
		Timeout  time.Duration
	}

	// Chatvolt provider settings. Credentials are resolved per request
	// through the secrets manager, or cached for CredentialsTTL when it is set.
	Chatvolt struct {
		Timeout        time.Duration
		ExposeRawReply bool
		CircuitBreaker bool
		CredentialsTTL time.Duration
	}

	// Hosted data store used for the conversation log
	Supabase struct {
		URL     string
		AnonKey string
		Table   string
	}

	// Direct Postgres connection, used when the conversation log backend is "postgres"
	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
	}

	// Redis settings, used by the redis rate limit backend
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// Security configuration
	Security struct {
		RateLimit        float64
		RateLimitBurst   int
		RateLimitBackend string
		AllowedOrigins   []string
		JWTSecret        string
		JWTExpiry        time.Duration
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Tracing configuration
	Tracing struct {
		Enabled     bool
		ServiceName string
	}

	// Identity used for the conversation log when the caller sends no token
	Identity struct {
		Name  string
		Email string
		Class string
	}

	// ConversationLog selects the question log backend: supabase, postgres or none
	ConversationLog struct {
		Backend string
	}

	// OpenAPI request validation
	OpenAPI struct {
		SchemaPath string
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		godotenv.Load()
		instance = Load()
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Load reads a fresh Config from the environment without touching the singleton
func Load() *Config {
	cfg := &Config{}

	cfg.Server.Port = getEnvString("PORT", "8081")
	cfg.Server.GRPCPort = getEnvString("GRPC_PORT", "")
	cfg.Server.Env = getEnvString("APP_ENV", "development")
	cfg.Server.Version = getEnvString("APP_VERSION", "dev")
	cfg.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 10*time.Second)

	cfg.Chatvolt.Timeout = getEnvDuration("CHATVOLT_TIMEOUT", 60*time.Second)
	cfg.Chatvolt.ExposeRawReply = getEnvBool("CHATVOLT_EXPOSE_RAW", true)
	cfg.Chatvolt.CircuitBreaker = getEnvBool("CHATVOLT_CIRCUIT_BREAKER", false)
	cfg.Chatvolt.CredentialsTTL = getEnvDuration("CHATVOLT_CREDENTIALS_TTL", 0)

	cfg.Supabase.URL = getEnvString("SUPABASE_URL", "")
	cfg.Supabase.AnonKey = getEnvString("SUPABASE_ANON_KEY", "")
	cfg.Supabase.Table = getEnvString("SUPABASE_TABLE", "perguntas")

	cfg.Database.Host = getEnvString("DB_HOST", "localhost")
	cfg.Database.Port = getEnvString("DB_PORT", "5432")
	cfg.Database.User = getEnvString("DB_USER", "postgres")
	cfg.Database.Password = getEnvString("DB_PASSWORD", "postgres")
	cfg.Database.Name = getEnvString("DB_NAME", "postgres")
	cfg.Database.SSLMode = getEnvString("DB_SSL_MODE", "require")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)

	cfg.Redis.Addr = getEnvString("REDIS_URL", "localhost:6379")
	cfg.Redis.Password = getEnvString("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Security.RateLimit = getEnvFloat("RATE_LIMIT", 5)
	cfg.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
	cfg.Security.RateLimitBackend = getEnvString("RATE_LIMIT_BACKEND", "memory")
	cfg.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
	cfg.Security.JWTSecret = getEnvString("JWT_SECRET", "")
	cfg.Security.JWTExpiry = getEnvDuration("JWT_EXPIRY", 24*time.Hour)

	cfg.Logging.Level = getEnvString("LOG_LEVEL", "info")
	cfg.Logging.Format = getEnvString("LOG_FORMAT", "json")

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", false)
	cfg.Tracing.ServiceName = getEnvString("SERVICE_NAME", "apostila-ai")

	cfg.Identity.Name = getEnvString("STUDENT_NAME", "João Silva")
	cfg.Identity.Email = getEnvString("STUDENT_EMAIL", "joao@email.com")
	cfg.Identity.Class = getEnvString("STUDENT_CLASS", "Ensino Médio")

	defaultBackend := "none"
	if cfg.Supabase.URL != "" {
		defaultBackend = "supabase"
	}
	cfg.ConversationLog.Backend = strings.ToLower(getEnvString("CONVERSATION_LOG_BACKEND", defaultBackend))

	cfg.OpenAPI.SchemaPath = getEnvString("OPENAPI_SCHEMA_PATH", "")

	return cfg
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
