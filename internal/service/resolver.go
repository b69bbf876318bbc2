package service

import (
	"ShrinkIt-Backend/internal/cache"
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Outcome is the terminal state of a redirect request.
type Outcome int

const (
	OutcomeRedirect Outcome = iota
	OutcomeNotFound
	OutcomeDisabled
	OutcomeExpired
	OutcomePasswordRequired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeExpired:
		return "expired"
	case OutcomePasswordRequired:
		return "password_required"
	default:
		return "unknown"
	}
}

// LinkCache is the read-through cache in front of short code lookups.
// SetIfCurrent must refuse the write when shortCode was invalidated after
// Generation was read.
type LinkCache interface {
	Get(ctx context.Context, shortCode string) (*domain.Link, error)
	Generation(ctx context.Context, shortCode string) (int64, error)
	SetIfCurrent(ctx context.Context, link *domain.Link, gen int64) error
	Invalidate(ctx context.Context, shortCode string) error
}

// Resolution is the result of resolving a short code. Link is nil for
// OutcomeNotFound.
type Resolution struct {
	Outcome Outcome
	Link    *domain.Link
}

type Resolver struct {
	storage repository.Storage
	cache   LinkCache
	log     *zap.Logger
	now     func() time.Time
}

// NewResolver creates a resolver; cache may be nil.
func NewResolver(storage repository.Storage, cache LinkCache, log *zap.Logger) *Resolver {
	return &Resolver{
		storage: storage,
		cache:   cache,
		log:     log,
		now:     time.Now,
	}
}

// Resolve decides what a request for shortCode gets. The error is non-nil
// only for infrastructure failures.
func (r *Resolver) Resolve(ctx context.Context, shortCode string) (Resolution, error) {
	link, err := r.lookup(ctx, shortCode)
	if errors.Is(err, repository.ErrLinkNotFound) {
		return Resolution{Outcome: OutcomeNotFound}, nil
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to resolve short code: %w", err)
	}

	return Resolution{Outcome: Evaluate(link, r.now()), Link: link}, nil
}

// Evaluate applies the redirect checks in order: disabled, expired,
// password protected.
func Evaluate(link *domain.Link, now time.Time) Outcome {
	switch {
	case !link.IsActive:
		return OutcomeDisabled
	case link.IsExpired(now):
		return OutcomeExpired
	case link.HasPassword():
		return OutcomePasswordRequired
	default:
		return OutcomeRedirect
	}
}

func (r *Resolver) lookup(ctx context.Context, shortCode string) (*domain.Link, error) {
	if r.cache == nil {
		return r.storage.GetLinkByShortCode(ctx, shortCode)
	}

	link, err := r.cache.Get(ctx, shortCode)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		r.log.Warn("link cache unavailable, reading storage", zap.String("short_code", shortCode), zap.Error(err))
	}

	// generation is read before storage so an update landing in between
	// makes the write-back fail
	gen, genErr := r.cache.Generation(ctx, shortCode)

	link, err = r.storage.GetLinkByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		return link, nil
	}
	switch err := r.cache.SetIfCurrent(ctx, link, gen); {
	case errors.Is(err, cache.ErrStale):
		r.log.Debug("link changed during lookup, not caching", zap.String("short_code", shortCode))
	case err != nil:
		r.log.Warn("failed to cache link", zap.String("short_code", shortCode), zap.Error(err))
	}
	return link, nil
}
