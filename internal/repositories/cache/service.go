package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"forbill/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService is a thin JSON cache over Redis with entity-aware helpers
// for the hot lookups: users by phone and balances by user.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheService wraps a Redis client with a default TTL.
func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Set stores a JSON-encoded value under key with the default TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetWithTTL stores a JSON-encoded value under key with an explicit TTL.
func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get loads a value into dest, returning false on a miss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete removes keys from the cache.
func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds a namespaced cache key.
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// CacheUser caches a user under both id and phone keys.
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}
	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "phone", user.Phone),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, user); err != nil {
			return err
		}
	}
	return nil
}

// GetUserByPhone looks up a cached user by phone, nil on miss.
func (s *CacheService) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("user", "phone", phone), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// InvalidateUser drops all cached keys for a user.
func (s *CacheService) InvalidateUser(ctx context.Context, user *models.User) error {
	return s.Delete(ctx,
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "phone", user.Phone),
		s.GenerateKey("balance", "user", user.ID),
	)
}

// CacheBalance caches a wallet balance for quick "balance" replies.
func (s *CacheService) CacheBalance(ctx context.Context, userID uint, balance float64) error {
	return s.SetWithTTL(ctx, s.GenerateKey("balance", "user", userID), balance, 5*time.Minute)
}

// GetBalance returns a cached balance; found is false on a miss.
func (s *CacheService) GetBalance(ctx context.Context, userID uint) (float64, bool, error) {
	var balance float64
	found, err := s.Get(ctx, s.GenerateKey("balance", "user", userID), &balance)
	return balance, found, err
}

// InvalidateBalance drops the cached balance after a wallet mutation.
func (s *CacheService) InvalidateBalance(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("balance", "user", userID))
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close closes the Redis client connection.
func (s *CacheService) Close() error {
	return s.client.Close()
}
