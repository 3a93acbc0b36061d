// Package user provides database access to user account records.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gudangku/gudangku/internal/db/models"
)

// ErrDuplicate is returned when creating a user whose email already exists.
var ErrDuplicate = errors.New("user with that email already exists")

// Controller provides read and write access to user records.
type Controller struct {
	db *gorm.DB
}

// New creates a new user controller.
func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// UserByID resolves a user by its id.
// A missing record yields (nil, nil) so callers can distinguish absence
// from infrastructure failure.
func (c *Controller) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User

	err := c.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}

	return &u, nil
}

// UserByEmail resolves a user by email; a missing record yields (nil, nil).
func (c *Controller) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User

	err := c.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	return &u, nil
}

// Create stores a new user record. Unique constraint violations are
// translated to ErrDuplicate.
func (c *Controller) Create(ctx context.Context, u *models.User) error {
	err := c.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// isDuplicate detects unique key violations across the supported drivers.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
