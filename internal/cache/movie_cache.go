// Package cache keeps fully joined movie records in Redis so that repeated
// reads of the same movie skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type MovieCache interface {
	Get(ctx context.Context, id uint) (*domain.Movie, bool)
	Set(ctx context.Context, movie *domain.Movie)
	Invalidate(ctx context.Context, ids ...uint)
}

// NewRedisClient connects and pings with a short timeout.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

type redisMovieCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisMovieCache stores movies under "<prefix>:movie:<id>" for ttl.
// Cache failures are logged and treated as misses.
func NewRedisMovieCache(client redis.Cmdable, ttl time.Duration, prefix string, logger *zap.Logger) MovieCache {
	if prefix == "" {
		prefix = "catalog"
	}
	return &redisMovieCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: logger.Named("MovieCache"),
	}
}

func (c *redisMovieCache) key(id uint) string {
	return fmt.Sprintf("%s:movie:%d", c.prefix, id)
}

func (c *redisMovieCache) Get(ctx context.Context, id uint) (*domain.Movie, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed", zap.Uint("movieID", id), zap.Error(err))
		}
		return nil, false
	}

	var movie domain.Movie
	if err := json.Unmarshal(data, &movie); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", zap.Uint("movieID", id), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &movie, true
}

func (c *redisMovieCache) Set(ctx context.Context, movie *domain.Movie) {
	data, err := json.Marshal(movie)
	if err != nil {
		c.logger.Warn("Cache encode failed", zap.Uint("movieID", movie.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(movie.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.Uint("movieID", movie.ID), zap.Error(err))
	}
}

func (c *redisMovieCache) Invalidate(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Uints("movieIDs", ids), zap.Error(err))
	}
}

type nopMovieCache struct{}

// Nop is used when no Redis is configured.
func Nop() MovieCache { return nopMovieCache{} }

func (nopMovieCache) Get(context.Context, uint) (*domain.Movie, bool) { return nil, false }
func (nopMovieCache) Set(context.Context, *domain.Movie)              {}
func (nopMovieCache) Invalidate(context.Context, ...uint)             {}
