package service

import (
	"ShrinkIt-Backend/internal/analytics"
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"ShrinkIt-Backend/pkg/qrcode"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PasswordHasher hashes link access passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// TitleSuggester proposes a title for a URL and never fails.
type TitleSuggester interface {
	Suggest(ctx context.Context, rawURL string) string
}

type CreateLinkInput struct {
	OriginalURL string
	Title       string
	CustomSlug  string
	Password    string
	ExpiresAt   *time.Time
}

// UpdateLinkInput holds a partial update; nil fields are left untouched.
// Empty OriginalURL and Title are ignored, an empty Password removes
// protection.
type UpdateLinkInput struct {
	OriginalURL *string
	Title       *string
	IsActive    *bool
	Password    *string
	ExpiresAt   *time.Time
}

// LinkAnalytics is the owner's analytics view of one link.
type LinkAnalytics struct {
	analytics.Report
	ClickDetails []domain.Click `json:"clickDetails"`
	Title        string         `json:"title"`
	OriginalURL  string         `json:"originalUrl"`
	ShortURL     string         `json:"shortUrl"`
}

// LinkService implements owner operations on links.
type LinkService struct {
	storage   repository.Storage
	allocator *Allocator
	cache     LinkCache
	passwords PasswordHasher
	titles    TitleSuggester
	baseURL   string
	log       *zap.Logger
}

func NewLinkService(
	storage repository.Storage,
	allocator *Allocator,
	cache LinkCache,
	passwords PasswordHasher,
	titles TitleSuggester,
	baseURL string,
	log *zap.Logger,
) *LinkService {
	return &LinkService{
		storage:   storage,
		allocator: allocator,
		cache:     cache,
		passwords: passwords,
		titles:    titles,
		baseURL:   baseURL,
		log:       log,
	}
}

// ShortURL composes the public address of link.
func (s *LinkService) ShortURL(link *domain.Link) string {
	return link.ShortURL(s.baseURL)
}

// Create allocates a short code and stores a new link owned by userID.
func (s *LinkService) Create(ctx context.Context, userID int64, in CreateLinkInput) (*domain.Link, error) {
	originalURL := strings.TrimSpace(in.OriginalURL)
	if originalURL == "" {
		return nil, validationError("Original URL is required.")
	}
	if err := validateURL(originalURL); err != nil {
		return nil, err
	}

	customSlug := strings.TrimSpace(in.CustomSlug)
	code, err := s.allocator.Allocate(ctx, customSlug)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = originalURL
	}

	link := &domain.Link{
		UserID:      userID,
		OriginalURL: originalURL,
		ShortCode:   code,
		Title:       title,
		ExpiresAt:   in.ExpiresAt,
		IsActive:    true,
	}

	if in.Password != "" {
		hash, err := s.passwords.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash link password: %w", err)
		}
		link.PasswordHash = &hash
	}

	if err := s.storage.CreateLink(ctx, link); err != nil {
		if errors.Is(err, repository.ErrShortCodeExists) {
			if customSlug != "" {
				return nil, ErrSlugTaken
			}
			s.log.Warn("generated short code collided", zap.String("short_code", code))
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	s.log.Info("link created",
		zap.Int64("link_id", link.ID),
		zap.Int64("user_id", userID),
		zap.String("short_code", code),
		zap.Bool("custom", customSlug != ""),
	)
	return link, nil
}

// List returns the user's links, newest first.
func (s *LinkService) List(ctx context.Context, userID int64) ([]*domain.Link, error) {
	links, err := s.storage.ListUserLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

func (s *LinkService) Update(ctx context.Context, userID, linkID int64, in UpdateLinkInput) (*domain.Link, error) {
	link, err := s.loadOwned(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	if in.OriginalURL != nil && strings.TrimSpace(*in.OriginalURL) != "" {
		originalURL := strings.TrimSpace(*in.OriginalURL)
		if err := validateURL(originalURL); err != nil {
			return nil, err
		}
		link.OriginalURL = originalURL
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		link.Title = strings.TrimSpace(*in.Title)
	}
	if in.IsActive != nil {
		link.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if *in.Password == "" {
			link.PasswordHash = nil
		} else {
			hash, err := s.passwords.HashPassword(*in.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash link password: %w", err)
			}
			link.PasswordHash = &hash
		}
	}
	if in.ExpiresAt != nil {
		link.ExpiresAt = in.ExpiresAt
	}

	if err := s.storage.UpdateLink(ctx, link); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	s.invalidate(ctx, link.ShortCode)

	s.log.Info("link updated", zap.Int64("link_id", link.ID), zap.Int64("user_id", userID))
	return link, nil
}

func (s *LinkService) Delete(ctx context.Context, userID, linkID int64) error {
	link, err := s.loadOwned(ctx, userID, linkID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteLink(ctx, link.ID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete link: %w", err)
	}
	s.invalidate(ctx, link.ShortCode)

	s.log.Info("link deleted", zap.Int64("link_id", link.ID), zap.Int64("user_id", userID))
	return nil
}

// QRCode renders the link's short URL as a PNG data URL.
func (s *LinkService) QRCode(ctx context.Context, userID, linkID int64) (string, error) {
	link, err := s.loadOwned(ctx, userID, linkID)
	if err != nil {
		return "", err
	}

	dataURL, err := qrcode.DataURL(s.ShortURL(link))
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return dataURL, nil
}

// Analytics recomputes the aggregate view from the full click history.
func (s *LinkService) Analytics(ctx context.Context, userID, linkID int64) (*LinkAnalytics, error) {
	link, err := s.loadOwned(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	clicks, err := s.storage.ListClicks(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load click history: %w", err)
	}

	return &LinkAnalytics{
		Report:       analytics.Aggregate(link.ClickCount, clicks),
		ClickDetails: clicks,
		Title:        link.Title,
		OriginalURL:  link.OriginalURL,
		ShortURL:     s.ShortURL(link),
	}, nil
}

// SuggestTitle always yields a title for a non-empty URL.
func (s *LinkService) SuggestTitle(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", validationError("URL is required.")
	}
	return s.titles.Suggest(ctx, rawURL), nil
}

// loadOwned fetches a link and checks that userID owns it.
func (s *LinkService) loadOwned(ctx context.Context, userID, linkID int64) (*domain.Link, error) {
	link, err := s.storage.GetLinkByID(ctx, linkID)
	if errors.Is(err, repository.ErrLinkNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load link: %w", err)
	}

	if link.UserID != userID {
		s.log.Warn("ownership check failed",
			zap.Int64("link_id", linkID),
			zap.Int64("owner_id", link.UserID),
			zap.Int64("user_id", userID),
		)
		return nil, ErrUnauthorized
	}
	return link, nil
}

func (s *LinkService) invalidate(ctx context.Context, shortCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, shortCode); err != nil {
		s.log.Error("failed to invalidate cached link", zap.String("short_code", shortCode), zap.Error(err))
	}
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return validationError("Please provide a valid http(s) URL.")
	}
	return nil
}
