package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/config"
)

const defaultTTL = 60 * time.Second

// UserCache caches user profiles by firebase uid.
type UserCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, firebaseUID string) (*models.User, error)
	Set(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, firebaseUID string) error
}

// Nop is used when no cache address is configured; every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.User, error) { return nil, nil }
func (Nop) Set(context.Context, *models.User) error            { return nil }
func (Nop) Delete(context.Context, string) error               { return nil }

type redisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserCache(client *redis.Client, ttl time.Duration) UserCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisUserCache{client: client, ttl: ttl}
}

func userKey(firebaseUID string) string { return "user:firebase_uid:" + firebaseUID }

func (c *redisUserCache) Get(ctx context.Context, firebaseUID string) (*models.User, error) {
	raw, err := c.client.Get(ctx, userKey(firebaseUID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &u, nil
}

func (c *redisUserCache) Set(ctx context.Context, u *models.User) error {
	if u == nil {
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, userKey(u.FirebaseUID), raw, c.ttl).Err()
}

func (c *redisUserCache) Delete(ctx context.Context, firebaseUID string) error {
	return c.client.Del(ctx, userKey(firebaseUID)).Err()
}

// New connects to redis when cache.addr is set and falls back to Nop otherwise.
// An unreachable redis is logged, not fatal; cache errors degrade to misses.
func New(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) UserCache {
	if cfg.Cache.Addr == "" {
		log.Infow("user cache disabled")
		return Nop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := client.Ping(pingCtx).Err(); err != nil {
				log.Warnw("redis ping failed", "addr", cfg.Cache.Addr, "err", err)
				return nil
			}
			log.Infow("connected to redis", "addr", cfg.Cache.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("closing redis client")
			return client.Close()
		},
	})
	return NewRedisUserCache(client, cfg.Cache.TTL)
}

var Module = fx.Options(
	fx.Provide(New),
)
