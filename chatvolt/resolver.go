package chatvolt

import (
	"context"
	"errors"
	"time"

	"apostila-ai/backend/pkg/cache"
	"apostila-ai/backend/pkg/secrets"
)

// Secret keys holding the provider credentials
const (
	SecretAPIKey  = "chatvolt_api_key"
	SecretBaseURL = "chatvolt_base_url"
)

// ErrNotConfigured means the API key or the base URL is missing
var ErrNotConfigured = errors.New("chatvolt credentials are not configured")

// Credentials address and authenticate the provider
type Credentials struct {
	APIKey  string
	BaseURL string
}

// Resolver looks up the provider credentials for one request
type Resolver interface {
	Resolve(ctx context.Context) (Credentials, error)
}

// SecretsResolver reads the credentials from a secrets manager on every call
type SecretsResolver struct {
	secrets secrets.Manager
}

// NewSecretsResolver creates a resolver backed by the given manager
func NewSecretsResolver(m secrets.Manager) *SecretsResolver {
	return &SecretsResolver{secrets: m}
}

// Resolve implements Resolver
func (r *SecretsResolver) Resolve(ctx context.Context) (Credentials, error) {
	creds := Credentials{
		APIKey:  r.secrets.GetSecretWithDefault(ctx, SecretAPIKey, ""),
		BaseURL: r.secrets.GetSecretWithDefault(ctx, SecretBaseURL, ""),
	}
	if creds.APIKey == "" || creds.BaseURL == "" {
		return Credentials{}, ErrNotConfigured
	}
	return creds, nil
}

// StaticResolver always answers with the same credentials
type StaticResolver Credentials

// Resolve implements Resolver
func (r StaticResolver) Resolve(context.Context) (Credentials, error) {
	if r.APIKey == "" || r.BaseURL == "" {
		return Credentials{}, ErrNotConfigured
	}
	return Credentials(r), nil
}

// CachingResolver remembers resolved credentials for the cache TTL.
// Missing credentials are never cached.
type CachingResolver struct {
	next  Resolver
	cache *cache.Cache[Credentials]
}

const credentialsKey = "chatvolt"

// NewCachingResolver wraps next with a cache holding credentials for ttl
func NewCachingResolver(next Resolver, ttl time.Duration) *CachingResolver {
	return &CachingResolver{
		next:  next,
		cache: cache.New[Credentials](cache.Options{TTL: ttl, MaxItems: 1}),
	}
}

// Resolve implements Resolver
func (r *CachingResolver) Resolve(ctx context.Context) (Credentials, error) {
	if creds, ok := r.cache.Get(credentialsKey); ok {
		return creds, nil
	}
	creds, err := r.next.Resolve(ctx)
	if err != nil {
		return Credentials{}, err
	}
	r.cache.Set(credentialsKey, creds)
	return creds, nil
}
