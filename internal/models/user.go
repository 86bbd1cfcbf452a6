package models

import "time"

// Role роль пользователя в системе.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User структура модели хранения пользователя.
type User struct {
	ID           uint      `gorm:"primarykey" json:"ID"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         Role      `gorm:"size:16;default:user" json:"role"`
}

// IsAdmin проверяет наличие административной роли.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
