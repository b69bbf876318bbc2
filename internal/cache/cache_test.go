package cache

import (
	"ShrinkIt-Backend/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCache(t *testing.T) (*LinkCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, time.Minute, zap.NewNop()), mr
}

func TestLinkCache_SetGet(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	hash := "$2a$10$hash"
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	link := &domain.Link{
		ID:           7,
		UserID:       3,
		OriginalURL:  "https://example.com",
		ShortCode:    "abc2345",
		PasswordHash: &hash,
		ExpiresAt:    &expires,
		IsActive:     true,
	}

	require.NoError(t, c.Set(ctx, link))

	got, err := c.Get(ctx, "abc2345")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, link.OriginalURL, got.OriginalURL)
	assert.True(t, got.HasPassword())
	assert.True(t, got.ExpiresAt.Equal(expires))
	assert.True(t, got.IsActive)
}

func TestLinkCache_MissAndInvalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, &domain.Link{ID: 1, ShortCode: "gone", IsActive: true}))
	require.NoError(t, c.Invalidate(ctx, "gone"))

	_, err = c.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestLinkCache_TTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.Link{ID: 1, ShortCode: "ttl", IsActive: true}))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "ttl")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestLinkCache_Nil(t *testing.T) {
	var c *LinkCache
	ctx := context.Background()

	assert.Nil(t, New(nil, time.Minute, zap.NewNop()))
	_, err := c.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Set(ctx, &domain.Link{ShortCode: "x"}))
	assert.NoError(t, c.Invalidate(ctx, "x"))
	gen, err := c.Generation(ctx, "x")
	assert.NoError(t, err)
	assert.Zero(t, gen)
	assert.NoError(t, c.SetIfCurrent(ctx, &domain.Link{ShortCode: "x"}, gen))
}

func TestLinkCache_SetIfCurrent(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	link := &domain.Link{ID: 1, ShortCode: "gen", IsActive: true}

	gen, err := c.Generation(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.SetIfCurrent(ctx, link, gen))
	_, err = c.Get(ctx, "gen")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "gen"))
	next, err := c.Generation(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	// a lookup that started before the invalidation must not write back
	assert.ErrorIs(t, c.SetIfCurrent(ctx, link, gen), ErrStale)
	_, err = c.Get(ctx, "gen")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.SetIfCurrent(ctx, link, next))
	_, err = c.Get(ctx, "gen")
	assert.NoError(t, err)
}

func TestLinkCache_Unavailable(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
