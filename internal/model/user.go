package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents an authenticated account. Usernames are unique and
// matched case-insensitively at login. Passwords are stored as bcrypt
// hashes (the stakeholder note on this divergence lives in DESIGN.md).
type User struct {
	BaseModel
	Username    string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Password    string       `gorm:"type:varchar(255);not null" json:"-"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Department  string       `gorm:"type:varchar(100);not null" json:"department" validate:"required"`
	Role        Role         `gorm:"type:varchar(20);not null;default:'user'" json:"role" validate:"required,oneof=admin user"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	Permissions []Permission `gorm:"many2many:user_permissions;" json:"permissions,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// HasPermission checks if the user holds a specific capability
func (u *User) HasPermission(code string) bool {
	for _, p := range u.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// GetPermissionCodes returns all capability codes granted to this user
func (u *User) GetPermissionCodes() []string {
	codes := make([]string, len(u.Permissions))
	for i, p := range u.Permissions {
		codes[i] = p.Code
	}
	return codes
}

// UserResponse is used for API responses (without the password hash)
type UserResponse struct {
	ID          uuid.UUID    `json:"id"`
	Username    string       `json:"username"`
	Name        string       `json:"name"`
	Department  string       `json:"department"`
	Role        Role         `json:"role"`
	IsActive    bool         `json:"is_active"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Department:  u.Department,
		Role:        u.Role,
		IsActive:    u.IsActive,
		Permissions: u.Permissions,
		CreatedAt:   u.CreatedAt,
	}
}
