package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is the auth-side identity row. Email lives here rather than on
// Profile: the reminder dispatcher resolves addresses through the identity
// directory, mirroring an admin-level lookup against the identity provider.
type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleID      string    `gorm:"size:128;uniqueIndex" json:"-"`
	Email         string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	HashedPass    string    `gorm:"size:255" json:"-"`
	FirstName     string    `gorm:"size:100" json:"first_name"`
	LastName      string    `gorm:"size:100" json:"last_name"`
	AvatarURL     string    `gorm:"size:512" json:"avatar_url"`
	LastLogin     time.Time `json:"last_login"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.LastLogin.IsZero() {
		a.LastLogin = time.Now()
	}
	return nil
}

// Role names understood by the admin middleware.
const (
	RoleAdmin             = "admin"
	RoleAnnouncementAdmin = "announcement_admin"
)

// UserRole grants a named role to a user. A user may hold several roles.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      string    `gorm:"size:30;not null;uniqueIndex:idx_user_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CreateUserRequest is the admin payload for provisioning an account.
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AddAdminRequest grants the admin role to the account with this email.
type AddAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}
