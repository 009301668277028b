package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calendar-api/core/constants"
	"calendar-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker records revoked access/refresh tokens by their jti. Entries expire
// together with the token, so the set never outgrows the live token population.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	// ConsumeToken revokes tokenID and reports whether this call did it.
	// A false result means another caller revoked it first.
	ConsumeToken(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

// LoginLimiter counts failed logins per identifier.
type LoginLimiter interface {
	IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error)
	IsLoginBlocked(ctx context.Context, identifier string) (bool, error)
	ResetLoginAttempts(ctx context.Context, identifier string) error
}

type Cache interface {
	TokenRevoker
	LoginLimiter
	Ping(ctx context.Context) error
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewRedisCache:Ping:Error", "addr", cfg.Addr, "error", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

// NewFromClient wraps an existing client, e.g. one shared with the job queue.
func NewFromClient(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id is empty")
	}
	if ttl <= 0 {
		// Already expired tokens are rejected by signature validation.
		return nil
	}
	return c.client.Set(ctx, constants.RedisKeyRevokedToken+tokenID, 1, ttl).Err()
}

func (c *redisCache) ConsumeToken(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if tokenID == "" {
		return false, errors.New("token id is empty")
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return c.client.SetNX(ctx, constants.RedisKeyRevokedToken+tokenID, 1, ttl).Result()
}

func (c *redisCache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyRevokedToken+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error) {
	key := constants.RedisKeyLoginAttempt + identifier

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, constants.BlockDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *redisCache) IsLoginBlocked(ctx context.Context, identifier string) (bool, error) {
	count, err := c.client.Get(ctx, constants.RedisKeyLoginAttempt+identifier).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= constants.MaxLoginAttempts, nil
}

func (c *redisCache) ResetLoginAttempts(ctx context.Context, identifier string) error {
	return c.client.Del(ctx, constants.RedisKeyLoginAttempt+identifier).Err()
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
