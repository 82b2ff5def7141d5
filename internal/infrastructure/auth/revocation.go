package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/custadmin/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RevocationList records token IDs that must be refused before they expire
type RevocationList interface {
	// Revoke adds jti to the list for ttl, normally the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti is on the list
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revocationKeyPrefix = "custadmin:token:revoked:"

// RedisRevocationList implements RevocationList using Redis keys with TTLs
type RedisRevocationList struct {
	client redis.UniversalClient
}

// NewRedisRevocationList connects to Redis and verifies the connection
func NewRedisRevocationList(ctx context.Context, cfg config.RedisConfig) (*RedisRevocationList, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for token revocation: %w", err)
	}

	return &RedisRevocationList{client: client}, nil
}

// NewRedisRevocationListWithClient wraps an existing Redis client
func NewRedisRevocationListWithClient(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func revocationKey(jti string) string {
	return revocationKeyPrefix + jti
}

// Revoke adds a token's JTI to the list
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token's JTI is on the list
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// Close releases the Redis connection pool
func (r *RedisRevocationList) Close() error {
	return r.client.Close()
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList is a single-process RevocationList for tests and local runs
type InMemoryRevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time // jti -> expiry
	now     func() time.Time
}

// NewInMemoryRevocationList creates an empty in-memory list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke adds jti to the list
func (m *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = m.now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti is listed and not yet expired
func (m *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if m.now().After(expiry) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)
