package models

import (
	"time"

	"gorm.io/gorm"
)

// Administrator roles.
const (
	RoleEditor = 1
	RoleAdmin  = 2
)

// User is an administrator account for the directory backend.
type User struct {
	UserID    uint           `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName  string         `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Email     string         `gorm:"column:email;type:varchar(255);uniqueIndex:uniq_user_email;not null" json:"email"`
	Password  string         `gorm:"column:password;type:varchar(255);not null" json:"-"`
	RoleID    int            `gorm:"column:role_id;not null;default:1" json:"role_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PasswordReset stores a single-use password reset token.
type PasswordReset struct {
	ResetID   uint       `gorm:"primaryKey;column:reset_id" json:"reset_id"`
	UserID    uint       `gorm:"column:user_id;not null;index" json:"user_id"`
	Token     string     `gorm:"column:token;type:varchar(64);uniqueIndex:uniq_password_reset_token" json:"-"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
