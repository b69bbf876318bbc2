package repository

import (
	"ShrinkIt-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrLinkNotFound    = errors.New("link not found")
	ErrShortCodeExists = errors.New("short code already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
)

// Storage is the persistent store of users, links and their click history.
// Every link mutation is scoped to a single link identified by its primary key.
type Storage interface {
	// User methods
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)

	// Link methods
	CreateLink(ctx context.Context, link *domain.Link) error
	GetLinkByID(ctx context.Context, id int64) (*domain.Link, error)
	GetLinkByShortCode(ctx context.Context, shortCode string) (*domain.Link, error)
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
	ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error)
	UpdateLink(ctx context.Context, link *domain.Link) error
	DeleteLink(ctx context.Context, id int64) error

	// Click methods
	RecordClick(ctx context.Context, linkID int64, click *domain.Click) error
	ListClicks(ctx context.Context, linkID int64) ([]domain.Click, error)

	Ping(ctx context.Context) error
}
