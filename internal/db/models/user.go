package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Role represents the flat access role assigned to a user account.
// Roles carry no hierarchy: route allow-lists enumerate every permitted
// role explicitly, so an admin does not implicitly pass moderator gates.
type Role string

const (
	// RoleAdmin grants access to administrative routes.
	RoleAdmin Role = "admin"
	// RoleModerator grants access to moderation routes.
	RoleModerator Role = "moderator"
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}

	return false
}

// User represents a user account in the system.
type User struct {
	// ID is the unique identifier for the user (uuid v4).
	ID string `gorm:"primaryKey;size:36"`
	// Name is the display name for the account.
	Name string `gorm:"size:100;not null"`
	// Email is the unique email address used for login.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255;not null"`
	// Role is the flat access role for this account.
	Role Role `gorm:"type:varchar(20);not null;default:'user'"`
	// Photo is the stored profile photo file name.
	Photo string `gorm:"size:255;not null;default:'default.png'"`
	// Verified indicates whether the email address was confirmed.
	Verified bool `gorm:"not null;default:false"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
