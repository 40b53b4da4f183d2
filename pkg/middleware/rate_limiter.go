package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"apostila-ai/backend/pkg/errors"
	"apostila-ai/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate limit backends
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// RateLimitStore decides whether one more request for key fits the budget
type RateLimitStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiterOptions configures the rate limiter
type RateLimiterOptions struct {
	// Limit defines requests per second
	Limit rate.Limit
	// Burst defines maximum burst size allowed
	Burst int
	// ExpiryDuration defines how long to keep client state in memory
	ExpiryDuration time.Duration
	// KeyFunc extracts the limiting key from a request (e.g. IP, user ID)
	KeyFunc func(*gin.Context) string
}

// DefaultRateLimiterOptions returns sensible defaults
func DefaultRateLimiterOptions() RateLimiterOptions {
	return RateLimiterOptions{
		Limit:          5,
		Burst:          10,
		ExpiryDuration: time.Hour,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimiter implements rate limiting middleware for Gin
type RateLimiter struct {
	options RateLimiterOptions
	store   RateLimitStore
	logger  *logger.Logger
}

// NewRateLimiter creates a rate limiter over the given store
func NewRateLimiter(logger *logger.Logger, store RateLimitStore, options RateLimiterOptions) *RateLimiter {
	if options.KeyFunc == nil {
		options.KeyFunc = DefaultRateLimiterOptions().KeyFunc
	}
	return &RateLimiter{
		options: options,
		store:   store,
		logger:  logger,
	}
}

// Middleware returns a Gin middleware for rate limiting.
// A failing store lets the request through.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := r.options.KeyFunc(c)

		allowed, err := r.store.Allow(c.Request.Context(), key)
		if err != nil {
			r.logger.LogError(err, "rate limit store unavailable", "client", key)
			c.Next()
			return
		}

		if !allowed {
			r.logger.Warn("Rate limit exceeded",
				"client", key,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			c.Header("Retry-After", "1")
			c.Header("X-RateLimit-Limit", strconv.Itoa(r.options.Burst))
			c.Error(errors.NewTooManyRequestsError(errors.CodeRateLimit, "Too many requests. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// client represents a rate limiter client
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per key in process memory
type MemoryStore struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	expiry  time.Duration
	clients map[string]*client
}

// NewMemoryStore creates an in-process store
func NewMemoryStore(options RateLimiterOptions) *MemoryStore {
	return &MemoryStore{
		limit:   options.Limit,
		burst:   options.Burst,
		expiry:  options.ExpiryDuration,
		clients: make(map[string]*client),
	}
}

// Allow implements RateLimitStore
func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	return s.getLimiter(key).Allow(), nil
}

// getLimiter returns a rate limiter for the given key
func (s *MemoryStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.clients[key]
	if !exists {
		limiter := rate.NewLimiter(s.limit, s.burst)
		s.clients[key] = &client{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup removes idle entries every minute until ctx is done
func (s *MemoryStore) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			for k, v := range s.clients {
				if time.Since(v.lastSeen) > s.expiry {
					delete(s.clients, k)
				}
			}
			s.mu.Unlock()
		}
	}
}

// WindowCounter counts hits per key inside an expiring window
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisStore shares a fixed-window budget between replicas
type RedisStore struct {
	counter WindowCounter
	max     int64
	window  time.Duration
	prefix  string
}

// NewRedisStore allows max requests per key in each window
func NewRedisStore(counter WindowCounter, max int, window time.Duration) *RedisStore {
	return &RedisStore{
		counter: counter,
		max:     int64(max),
		window:  window,
		prefix:  "apostila:ratelimit:",
	}
}

// Allow implements RateLimitStore
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	count, err := s.counter.IncrWindow(ctx, s.prefix+key, s.window)
	if err != nil {
		return false, err
	}
	return count <= s.max, nil
}
