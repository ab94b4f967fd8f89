package models

import (
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"

	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User represents an admin panel account.
type User struct {
	BaseModel
	Name         string     `json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:viewer" json:"role"`
	Status       string     `gorm:"not null;default:active" json:"status"`
	LastLogin    *time.Time `json:"last_login"`
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// ValidRole reports whether role is a known user role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}

// ValidUserStatus reports whether status is a known account status.
func ValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusDisabled
}
