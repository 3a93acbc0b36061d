package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gudangku/gudangku/internal/auth"
	"github.com/gudangku/gudangku/internal/config"
	"github.com/gudangku/gudangku/internal/session"
	"github.com/gudangku/gudangku/internal/token"
)

// Deps carries the shared dependencies every handler service needs.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Tokens   *token.Manager
	Sessions *session.Store
	Gate     *auth.Gate
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
