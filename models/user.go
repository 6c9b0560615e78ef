// Package models contains domain entities and business models for the campaign system
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole represents a user's role within their organization
type UserRole string

const (
	UserRoleOwner    UserRole = "owner"
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleOwner, UserRoleAdmin, UserRoleOperator:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for UserRole
func (r *UserRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into UserRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for UserRole
func (r UserRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid UserRole: %s", r)
	}
	return string(r), nil
}

// CanManageCampaigns reports whether the role may create, edit, delete,
// or export campaigns. Operators have read-only campaign access.
func (r UserRole) CanManageCampaigns() bool {
	return r == UserRoleOwner || r == UserRoleAdmin
}

// User is a member of an organization
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	OrganizationID uint      `gorm:"not null;index:idx_users_organization_id" json:"organization_id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Role           UserRole  `gorm:"type:user_role;not null;default:'operator';index:idx_users_role" json:"role"`
	IsActive       *bool     `gorm:"default:true;index:idx_users_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_users_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	AuditLogs []AuditLog `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for the model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new record
func (u *User) BeforeCreate() error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.Role == "" {
		u.Role = UserRoleOperator
	}
	return nil
}

// SetPassword hashes the plaintext password into PasswordHash
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	OrganizationID *uint
	Email          *string
	Role           *UserRole
	IsActive       *bool
}
