package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gudangku/gudangku/internal/db/models"
)

// Fail renders a client-side rejection with the given status code.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "fail",
		"message": message,
	})
}

// Error renders a server-side failure. The message stays generic; the
// detail belongs in the log.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// Success renders a successful response carrying a data payload.
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// UserDTO is the external representation of a user account. The
// password hash never leaves the server.
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Photo     string    `json:"photo"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserDTO maps a user record to its external representation.
func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Photo:     u.Photo,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
