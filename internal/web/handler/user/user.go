// Package user serves the account profile routes.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	authz "github.com/gudangku/gudangku/internal/auth"
	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/web/handler"
)

// Path is the base path of the profile routes.
const Path = "/api/users"

// Service is the profile handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps

	anyRole := []models.Role{models.RoleAdmin, models.RoleModerator, models.RoleUser}

	app.Route(Path, func(router fiber.Router) {
		router.Get("/me", authz.Require(deps.Gate, anyRole...), s.Me)
	})

	return nil
}

// Me returns the profile of the authenticated principal.
func (s *Service) Me(c *fiber.Ctx) error {
	principal := authz.FromContext(c)

	return handler.Success(c, fiber.StatusOK, fiber.Map{
		"user": handler.NewUserDTO(principal.User),
	})
}
