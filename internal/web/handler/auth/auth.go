// Package auth serves the account lifecycle routes: register, login,
// token refresh and logout.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authz "github.com/gudangku/gudangku/internal/auth"
	"github.com/gudangku/gudangku/internal/db/controller/user"
	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/token"
	"github.com/gudangku/gudangku/internal/web/handler"
)

// Path is the base path of the account lifecycle routes.
const Path = "/api/auth"

var validate = validator.New()

// RegisterSchema is the payload for creating an account.
type RegisterSchema struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=100"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginSchema is the payload for opening a session.
type LoginSchema struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenData is the payload returned by login.
type TokenData struct {
	AccessToken         string    `json:"access_token"`
	RefreshToken        string    `json:"refresh_token"`
	RefreshTokenExpired time.Time `json:"refresh_token_expired"`
}

// Service is the account lifecycle handler service.
type Service struct {
	handler.Service
	deps  *handler.Deps
	users *user.Controller
}

// Handler is the account lifecycle handler.
var Handler = Service{}

// Init initializes the account lifecycle handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps
	s.users = user.New(deps.DB)

	anyRole := []models.Role{models.RoleAdmin, models.RoleModerator, models.RoleUser}

	app.Route(Path, func(router fiber.Router) {
		router.Post("/register", s.Register)
		router.Post("/login", s.Login)
		router.Get("/refresh", s.Refresh)
		router.Get("/logout", authz.Require(deps.Gate, anyRole...), s.Logout)
	})

	return nil
}

// Register creates a new account with the default role.
func (s *Service) Register(c *fiber.Ctx) error {
	var payload RegisterSchema

	if err := c.BodyParser(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	u := &models.User{
		ID:       uuid.NewString(),
		Name:     payload.Name,
		Email:    payload.Email,
		Password: models.HashPassword(payload.Password),
		Role:     models.RoleUser,
	}

	err := s.users.Create(c.UserContext(), u)
	if err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return handler.Fail(c, fiber.StatusConflict, "user with that email already exists")
		}

		log.Error().Err(err).Msg("failed to register user")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	return handler.Success(c, fiber.StatusCreated, fiber.Map{"user": handler.NewUserDTO(u)})
}

// Login verifies credentials, opens an access and a refresh session and
// hands out both tokens.
func (s *Service) Login(c *fiber.Ctx) error {
	var payload LoginSchema

	if err := c.BodyParser(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	u, err := s.users.UserByEmail(c.UserContext(), payload.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up user for login")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	// Same answer whether the account is unknown or the password is wrong.
	if u == nil || !u.VerifyPassword(payload.Password) {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid email or password")
	}

	tokens, err := s.openSessions(c, u)
	if err != nil {
		log.Error().Err(err).Msg("failed to open sessions")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	return handler.Success(c, fiber.StatusOK, tokens)
}

// openSessions mints both tokens and registers their sessions. A token
// whose session never made it into the registry is dead on arrival, so
// any registry failure aborts the login.
func (s *Service) openSessions(c *fiber.Ctx, u *models.User) (*TokenData, error) {
	access, err := s.deps.Tokens.Issue(u.ID, token.Access)
	if err != nil {
		return nil, err
	}

	refresh, err := s.deps.Tokens.Issue(u.ID, token.Refresh)
	if err != nil {
		return nil, err
	}

	ctx := c.UserContext()

	if err := s.deps.Sessions.Put(ctx, access.SessionID, u.ID, s.deps.Tokens.TTL(token.Access)); err != nil {
		return nil, err
	}

	if err := s.deps.Sessions.Put(ctx, refresh.SessionID, u.ID, s.deps.Tokens.TTL(token.Refresh)); err != nil {
		return nil, err
	}

	s.setTokenCookie(c, handler.AccessTokenCookie, access.Token, access.ExpiresAt)
	s.setTokenCookie(c, handler.RefreshTokenCookie, refresh.Token, refresh.ExpiresAt)

	return &TokenData{
		AccessToken:         access.Token,
		RefreshToken:        refresh.Token,
		RefreshTokenExpired: refresh.ExpiresAt,
	}, nil
}

// Refresh mints a fresh access token against a live refresh session.
// The refresh credential itself is left untouched.
func (s *Service) Refresh(c *fiber.Ctx) error {
	raw := c.Cookies(handler.RefreshTokenCookie)
	if raw == "" {
		if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}

	principal, authErr := s.deps.Gate.CheckRefresh(c, raw)
	if authErr != nil {
		status := "fail"

		if authErr.Code == authz.CodeInfra {
			status = "error"

			log.Error().Err(authErr).Msg("refresh backend failure")
		}

		return c.Status(authErr.Status()).JSON(fiber.Map{
			"status":  status,
			"message": authErr.Message(),
		})
	}

	access, err := s.deps.Tokens.Issue(principal.ID, token.Access)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue access token")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	err = s.deps.Sessions.Put(c.UserContext(), access.SessionID, principal.ID, s.deps.Tokens.TTL(token.Access))
	if err != nil {
		log.Error().Err(err).Msg("failed to register access session")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	s.setTokenCookie(c, handler.AccessTokenCookie, access.Token, access.ExpiresAt)

	return handler.Success(c, fiber.StatusOK, fiber.Map{"access_token": access.Token})
}

// Logout revokes the access session of the request and, when the
// request carries a matching refresh credential, that session too.
func (s *Service) Logout(c *fiber.Ctx) error {
	principal := authz.FromContext(c)

	sessionIDs := []string{principal.SessionID}

	// Best effort on the refresh side: only a verified refresh token for
	// the same subject names a session worth revoking.
	if raw := c.Cookies(handler.RefreshTokenCookie); raw != "" {
		claims, err := s.deps.Tokens.Verify(raw, token.Refresh)
		if err == nil && claims.Subject == principal.ID {
			sessionIDs = append(sessionIDs, claims.SID)
		}
	}

	if _, err := s.deps.Sessions.Delete(c.UserContext(), sessionIDs...); err != nil {
		log.Error().Err(err).Msg("failed to revoke sessions")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	s.clearTokenCookie(c, handler.AccessTokenCookie)
	s.clearTokenCookie(c, handler.RefreshTokenCookie)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}

func (s *Service) setTokenCookie(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   !s.deps.Cfg.DevMode,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Service) clearTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   !s.deps.Cfg.DevMode,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
