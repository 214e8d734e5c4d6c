package models

import "time"

// User owns every category, transaction and budget it creates.
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Username            string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `gorm:"size:150" json:"first_name"`
	LastName            string     `gorm:"size:150" json:"last_name"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}
