package models

import "time"

// Folder структура модели хранения папки ссылок.
//
// Имя уникально для владельца (без учета регистра) среди не удаленных папок,
// что обеспечивается частичным уникальным индексом (см. internal/db).
// Связь ссылка-папка хранится на стороне Link.FolderID.
type Folder struct {
	ID          uint       `gorm:"primarykey" json:"ID"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:500" json:"description"`
	UserID      uint       `gorm:"index;not null" json:"userID"`
	IsDeleted   bool       `gorm:"index;default:false" json:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt"`

	// LinksCount заполняется при выборке списка, в базе не хранится.
	LinksCount int64 `gorm:"-" json:"linksCount"`
}
