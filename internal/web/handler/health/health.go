// Package health serves the liveness route.
package health

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gudangku/gudangku/internal/web/handler"
)

// Path is the path of the liveness route.
const Path = "/api/healthchecker"

// Service is the liveness handler service.
type Service struct {
	handler.Service
}

// Handler is the liveness handler.
var Handler = Service{}

// Init initializes the liveness handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	app.Get(Path, s.Get)

	return nil
}

// Get reports liveness. It is deliberately unauthenticated.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "100% healthy",
	})
}
