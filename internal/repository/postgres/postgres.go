package postgres

import (
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage поверх GORM
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- User Methods ---

// CreateUser создает пользователя; email уникален
func (s *PostgresStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return repository.ErrUserExists
		}
		s.log.Error("failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("created new user", zap.Int64("user_id", user.ID))
	return nil
}

// GetUserByEmail получает пользователя по email
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByID получает пользователя по ID
func (s *PostgresStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by id", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// --- Link Methods ---

// CreateLink сохраняет новую ссылку. Уникальность short_code гарантирует индекс.
func (s *PostgresStorage) CreateLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Omit("Clicks").Create(link).Error; err != nil {
		if isUniqueViolation(err) {
			return repository.ErrShortCodeExists
		}
		s.log.Error("failed to save link", zap.String("short_code", link.ShortCode), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new link", zap.String("short_code", link.ShortCode), zap.Int64("user_id", link.UserID))
	return nil
}

// GetLinkByID получает ссылку по первичному ключу
func (s *PostgresStorage) GetLinkByID(ctx context.Context, id int64) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).First(&link, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.Int64("link_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// GetLinkByShortCode получает ссылку по короткому коду.
// Активность и срок действия здесь не проверяются.
func (s *PostgresStorage) GetLinkByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("short_code", shortCode), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// ShortCodeExists проверяет, занят ли короткий код
func (s *PostgresStorage) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Link{}).Where("short_code = ?", shortCode).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check short code existence", zap.String("short_code", shortCode), zap.Error(err))
		return false, fmt.Errorf("failed to check short code: %w", err)
	}

	return count > 0, nil
}

// ListUserLinks возвращает ссылки пользователя, новые первыми
func (s *PostgresStorage) ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error) {
	links := make([]*domain.Link, 0)

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list user links", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list user links: %w", err)
	}

	return links, nil
}

// UpdateLink обновляет изменяемые владельцем поля.
// user_id, short_code и click_count не трогаются.
func (s *PostgresStorage) UpdateLink(ctx context.Context, link *domain.Link) error {
	result := s.db.WithContext(ctx).Model(&domain.Link{}).Where("id = ?", link.ID).Updates(map[string]interface{}{
		"original_url":  link.OriginalURL,
		"title":         link.Title,
		"is_active":     link.IsActive,
		"password_hash": link.PasswordHash,
		"expires_at":    link.ExpiresAt,
	})
	if result.Error != nil {
		s.log.Error("failed to update link", zap.Int64("link_id", link.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update link: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	return nil
}

// DeleteLink удаляет ссылку вместе с историей кликов (жесткое удаление)
func (s *PostgresStorage) DeleteLink(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&domain.Click{}).Error; err != nil {
			return fmt.Errorf("failed to delete clicks: %w", err)
		}

		result := tx.Delete(&domain.Link{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete link: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrLinkNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrLinkNotFound) {
			s.log.Error("failed to delete link", zap.Int64("link_id", id), zap.Error(err))
		}
		return err
	}

	s.log.Info("deleted link", zap.Int64("link_id", id))
	return nil
}

// --- Click Methods ---

// RecordClick добавляет клик в историю и увеличивает счетчик в одной транзакции,
// поэтому click_count всегда равен числу строк в clicks
func (s *PostgresStorage) RecordClick(ctx context.Context, linkID int64, click *domain.Click) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Link{}).Where("id = ?", linkID).
			UpdateColumn("click_count", gorm.Expr("click_count + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to update click count: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrLinkNotFound
		}

		click.LinkID = linkID
		if err := tx.Create(click).Error; err != nil {
			return fmt.Errorf("failed to create click: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("recorded click", zap.Int64("link_id", linkID), zap.String("country", click.Country))
	return nil
}

// ListClicks возвращает историю кликов в порядке вставки
func (s *PostgresStorage) ListClicks(ctx context.Context, linkID int64) ([]domain.Click, error) {
	clicks := make([]domain.Click, 0)

	err := s.db.WithContext(ctx).Where("link_id = ?", linkID).Order("id ASC").Find(&clicks).Error
	if err != nil {
		s.log.Error("failed to list clicks", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}

	return clicks, nil
}

// Ping проверяет доступность базы данных
func (s *PostgresStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// --- Helper Methods ---

// isUniqueViolation распознает нарушение уникального индекса.
// gorm.ErrDuplicatedKey появляется при TranslateError: true.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
