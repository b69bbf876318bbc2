package domain

import (
	"strings"
	"time"
)

// Link представляет сокращенную ссылку пользователя
type Link struct {
	ID           int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID       int64      `gorm:"column:user_id;not null;index" json:"user_id"` // владелец, не меняется после создания
	OriginalURL  string     `gorm:"column:original_url;type:text;not null" json:"original_url"`
	ShortCode    string     `gorm:"column:short_code;size:64;uniqueIndex;not null" json:"short_code"`
	Title        string     `gorm:"column:title;size:255" json:"title"`
	PasswordHash *string    `gorm:"column:password_hash" json:"-"` // NULL = ссылка без пароля
	ExpiresAt    *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ClickCount   int64      `gorm:"column:click_count;not null;default:0" json:"click_count"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Clicks []Click `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName возвращает название таблицы для GORM
func (Link) TableName() string {
	return "links"
}

// HasPassword сообщает, защищена ли ссылка паролем
func (l *Link) HasPassword() bool {
	return l.PasswordHash != nil && *l.PasswordHash != ""
}

// IsExpired проверяет, истек ли срок действия ссылки на момент now
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// ShortURL собирает публичный адрес ссылки
func (l *Link) ShortURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + l.ShortCode
}
