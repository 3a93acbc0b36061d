package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gudangku/gudangku/internal/db/models"
)

const principalKey = "principal"

// Require builds a route middleware that authenticates the request and
// checks the principal's role against the allow-list. Roles are flat:
// the list names every role that may pass, nothing is implied by rank.
// An empty list denies everyone.
func Require(gate *Gate, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, authErr := gate.Authenticate(c)
		if authErr != nil {
			return reject(c, authErr)
		}

		if _, ok := allowed[principal.Role]; !ok {
			log.Warn().
				Str("user_id", principal.ID).
				Str("role", string(principal.Role)).
				Str("path", c.Path()).
				Msg("role not allowed for route")

			return reject(c, NewError(CodeForbidden, nil))
		}

		c.Locals(principalKey, principal)

		return c.Next()
	}
}

// FromContext returns the principal attached by Require. It is nil on
// routes that did not pass through the guard.
func FromContext(c *fiber.Ctx) *Principal {
	principal, _ := c.Locals(principalKey).(*Principal)

	return principal
}

// reject renders a classified rejection. Diagnostic detail goes to the
// log; the body carries only the coarse external message.
func reject(c *fiber.Ctx, authErr *Error) error {
	status := "fail"

	if authErr.Code == CodeInfra {
		status = "error"

		log.Error().Err(authErr).Str("path", c.Path()).Msg("authentication backend failure")
	} else if authErr.cause != nil {
		log.Debug().Err(authErr).Str("path", c.Path()).Msg("request rejected")
	}

	return c.Status(authErr.Status()).JSON(fiber.Map{
		"status":  status,
		"message": authErr.Message(),
	})
}
