// Package cache keeps resolved links in Redis so redirects skip the database.
// Entries are invalidated whenever a link is updated or deleted.
package cache

import (
	"ShrinkIt-Backend/internal/config"
	"ShrinkIt-Backend/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "link:"
	// genPrefix counts invalidations per short code. A reader that saw an
	// older generation must not write its copy back.
	genPrefix     = "linkgen:"
	generationTTL = time.Hour
)

var (
	ErrMiss  = errors.New("cache miss")
	ErrStale = errors.New("cached link invalidated during lookup")
)

// NewClient connects to Redis. A nil client without error means caching is disabled.
func NewClient(cfg *config.Cache) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// entry mirrors the fields the redirect path needs, including the password
// hash that domain.Link hides from JSON.
type entry struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	OriginalURL  string     `json:"originalUrl"`
	ShortCode    string     `json:"shortCode"`
	Title        string     `json:"title"`
	PasswordHash *string    `json:"passwordHash,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// LinkCache is safe to use as a nil pointer, in which case every lookup misses.
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *LinkCache {
	if client == nil {
		return nil
	}
	return &LinkCache{client: client, ttl: ttl, log: log}
}

// Get returns ErrMiss when the code is not cached.
func (c *LinkCache) Get(ctx context.Context, shortCode string) (*domain.Link, error) {
	if c == nil {
		return nil, ErrMiss
	}

	raw, err := c.client.Get(ctx, keyPrefix+shortCode).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cached link: %w", err)
	}

	return &domain.Link{
		ID:           e.ID,
		UserID:       e.UserID,
		OriginalURL:  e.OriginalURL,
		ShortCode:    e.ShortCode,
		Title:        e.Title,
		PasswordHash: e.PasswordHash,
		ExpiresAt:    e.ExpiresAt,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
	}, nil
}

func (c *LinkCache) Set(ctx context.Context, link *domain.Link) error {
	if c == nil {
		return nil
	}

	raw, err := encode(link)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, keyPrefix+link.ShortCode, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func encode(link *domain.Link) ([]byte, error) {
	raw, err := json.Marshal(entry{
		ID:           link.ID,
		UserID:       link.UserID,
		OriginalURL:  link.OriginalURL,
		ShortCode:    link.ShortCode,
		Title:        link.Title,
		PasswordHash: link.PasswordHash,
		ExpiresAt:    link.ExpiresAt,
		IsActive:     link.IsActive,
		CreatedAt:    link.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode link: %w", err)
	}
	return raw, nil
}

// Generation returns the invalidation counter for shortCode. Read it before
// loading the link from storage and pass it to SetIfCurrent.
func (c *LinkCache) Generation(ctx context.Context, shortCode string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	return readGeneration(ctx, c.client, shortCode)
}

// SetIfCurrent caches link only if shortCode was not invalidated since gen
// was read. Returns ErrStale otherwise.
func (c *LinkCache) SetIfCurrent(ctx context.Context, link *domain.Link, gen int64) error {
	if c == nil {
		return nil
	}

	raw, err := encode(link)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, link.ShortCode)
		if err != nil {
			return err
		}
		if current != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+link.ShortCode, raw, c.ttl)
			return nil
		})
		return err
	}, genPrefix+link.ShortCode)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return ErrStale
	case errors.Is(err, ErrStale):
		return err
	case err != nil:
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the entry and bumps the generation so lookups already in
// flight cannot re-cache the old state.
func (c *LinkCache) Invalidate(ctx context.Context, shortCode string) error {
	if c == nil {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyPrefix+shortCode)
		pipe.Incr(ctx, genPrefix+shortCode)
		pipe.Expire(ctx, genPrefix+shortCode, generationTTL)
		return nil
	})
	if err != nil {
		c.log.Warn("failed to invalidate cached link", zap.String("short_code", shortCode), zap.Error(err))
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd getter, shortCode string) (int64, error) {
	gen, err := cmd.Get(ctx, genPrefix+shortCode).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}
