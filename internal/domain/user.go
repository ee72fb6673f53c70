package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Opaque identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// Roles a user can hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`               // Primary key (uuid)
	Name         string    `gorm:"size:128;not null" json:"name"`              // Display name
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique, lower-cased email
	PasswordHash string    `gorm:"size:191;not null" json:"-"`                 // Bcrypt hash, never serialized
	Role         string    `gorm:"size:16;default:user" json:"role"`           // Role: user or admin
	CreatedAt    time.Time `json:"createdAt"`                                  // Creation time
	UpdatedAt    time.Time `json:"updatedAt"`                                  // Last update time
}

// BeforeCreate assigns an id and the default role
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the user shape returned to clients
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the password hash
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
