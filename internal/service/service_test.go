package service

import (
	"ShrinkIt-Backend/internal/auth"
	"ShrinkIt-Backend/internal/cache"
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"ShrinkIt-Backend/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://sho.rt"

type fixedTitles string

func (f fixedTitles) Suggest(context.Context, string) string {
	return string(f)
}

// collidingStorage reports every insert as a short code collision.
type collidingStorage struct {
	repository.Storage
}

func (collidingStorage) CreateLink(context.Context, *domain.Link) error {
	return repository.ErrShortCodeExists
}

// racingStorage runs afterRead once, right after a short code lookup returns,
// to land an owner change in the middle of a resolve.
type racingStorage struct {
	repository.Storage
	afterRead func()
}

func (s *racingStorage) GetLinkByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	link, err := s.Storage.GetLinkByShortCode(ctx, shortCode)
	if hook := s.afterRead; hook != nil {
		s.afterRead = nil
		hook()
	}
	return link, err
}

type fixture struct {
	storage  *memory.MemStorage
	cache    *cache.LinkCache
	redis    *miniredis.Miniredis
	links    *LinkService
	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	storage := memory.New()
	linkCache := cache.New(client, time.Minute, log)

	return &fixture{
		storage: storage,
		cache:   linkCache,
		redis:   mr,
		links: NewLinkService(storage, NewAllocator(storage, DefaultCodeLength), linkCache,
			auth.NewPasswordService(4), fixedTitles("Suggested"), testBaseURL, log),
		resolver: NewResolver(storage, linkCache, log),
	}
}

func (f *fixture) create(t *testing.T, userID int64, in CreateLinkInput) *domain.Link {
	t.Helper()
	link, err := f.links.Create(context.Background(), userID, in)
	require.NoError(t, err)
	return link
}
