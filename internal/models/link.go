package models

import "time"

// ShortIdentifierLength длина генерируемого идентификатора короткой ссылки.
const ShortIdentifierLength = 7

// Границы длины пользовательского алиаса.
const (
	CustomAliasMinLength = 3
	CustomAliasMaxLength = 20
)

// Link структура модели хранения короткой ссылки.
//
// Уникальность ShortIdentifier обеспечивается индексом без учета регистра
// (см. internal/db) поверх всех записей, включая мягко удаленные.
type Link struct {
	ID              uint       `gorm:"primarykey" json:"ID"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ShortIdentifier string     `gorm:"size:20;not null" json:"shortIdentifier"`
	Title           string     `gorm:"size:255" json:"title"`
	Destination     string     `gorm:"size:2048;not null" json:"destination"`
	UserID          uint       `gorm:"index;not null" json:"userID"`
	FolderID        *uint      `gorm:"index" json:"folderID"`
	IsActive        bool       `gorm:"default:true" json:"isActive"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	IsDeleted       bool       `gorm:"index;default:false" json:"isDeleted"`
	DeletedAt       *time.Time `json:"deletedAt"`

	// ShortURL полный публичный адрес, в базе не хранится.
	ShortURL string `gorm:"-" json:"shortURL,omitempty"`
}

// IsExpired сообщает, истек ли срок жизни ссылки на момент now.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}
