package memory

import (
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

// MemStorage keeps everything in process memory. Values are copied on the way
// in and out so callers never share state with the store.
type MemStorage struct {
	mu           sync.RWMutex
	links        map[int64]*domain.Link
	linkIDByCode map[string]int64
	clicks       map[int64][]domain.Click
	users        map[int64]*domain.User
	userIDByMail map[string]int64
	linkCounter  int64
	clickCounter int64
	userCounter  int64
}

func New() *MemStorage {
	return &MemStorage{
		links:        make(map[int64]*domain.Link),
		linkIDByCode: make(map[string]int64),
		clicks:       make(map[int64][]domain.Click),
		users:        make(map[int64]*domain.User),
		userIDByMail: make(map[string]int64),
	}
}

// --- User Methods ---

func (s *MemStorage) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userIDByMail[user.Email]; exists {
		return repository.ErrUserExists
	}

	s.userCounter++
	now := time.Now()
	user.ID = s.userCounter
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.users[user.ID] = &stored
	s.userIDByMail[user.Email] = user.ID
	return nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userIDByMail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user := *s.users[id]
	return &user, nil
}

func (s *MemStorage) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// --- Link Methods ---

func (s *MemStorage) CreateLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.linkIDByCode[link.ShortCode]; exists {
		return repository.ErrShortCodeExists
	}

	s.linkCounter++
	now := time.Now()
	link.ID = s.linkCounter
	link.CreatedAt = now
	link.UpdatedAt = now
	link.ClickCount = 0

	s.links[link.ID] = copyLink(link)
	s.linkIDByCode[link.ShortCode] = link.ID
	return nil
}

func (s *MemStorage) GetLinkByID(_ context.Context, id int64) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return copyLink(link), nil
}

func (s *MemStorage) GetLinkByShortCode(_ context.Context, shortCode string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.linkIDByCode[shortCode]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return copyLink(s.links[id]), nil
}

func (s *MemStorage) ShortCodeExists(_ context.Context, shortCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.linkIDByCode[shortCode]
	return ok, nil
}

func (s *MemStorage) ListUserLinks(_ context.Context, userID int64) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userLinks := make([]*domain.Link, 0)
	for _, link := range s.links {
		if link.UserID == userID {
			userLinks = append(userLinks, copyLink(link))
		}
	}
	// newest first; IDs are monotonic so they break CreatedAt ties
	sort.Slice(userLinks, func(i, j int) bool {
		return userLinks[i].ID > userLinks[j].ID
	})
	return userLinks, nil
}

// UpdateLink overwrites the owner-mutable fields of the stored link.
// ID, UserID, ShortCode and ClickCount are never taken from the argument.
func (s *MemStorage) UpdateLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.links[link.ID]
	if !ok {
		return repository.ErrLinkNotFound
	}

	stored.OriginalURL = link.OriginalURL
	stored.Title = link.Title
	stored.IsActive = link.IsActive
	stored.PasswordHash = copyString(link.PasswordHash)
	stored.ExpiresAt = copyTime(link.ExpiresAt)
	stored.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) DeleteLink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return repository.ErrLinkNotFound
	}
	delete(s.linkIDByCode, link.ShortCode)
	delete(s.links, id)
	delete(s.clicks, id)
	return nil
}

// --- Click Methods ---

func (s *MemStorage) RecordClick(_ context.Context, linkID int64, click *domain.Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok {
		return repository.ErrLinkNotFound
	}

	s.clickCounter++
	click.ID = s.clickCounter
	click.LinkID = linkID

	s.clicks[linkID] = append(s.clicks[linkID], *click)
	link.ClickCount++
	return nil
}

func (s *MemStorage) ListClicks(_ context.Context, linkID int64) ([]domain.Click, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]domain.Click, len(s.clicks[linkID]))
	copy(history, s.clicks[linkID])
	return history, nil
}

func (s *MemStorage) Ping(_ context.Context) error {
	return nil
}

// --- Helper Methods ---

func copyLink(link *domain.Link) *domain.Link {
	cp := *link
	cp.PasswordHash = copyString(link.PasswordHash)
	cp.ExpiresAt = copyTime(link.ExpiresAt)
	cp.Clicks = nil
	return &cp
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
