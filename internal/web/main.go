// Package web assembles the fiber application and its handler services.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	fiberlogger "github.com/gudangku/gudangku/internal/logger/adapter/fiber"
	"github.com/gudangku/gudangku/internal/web/handler"
	authhandler "github.com/gudangku/gudangku/internal/web/handler/auth"
	"github.com/gudangku/gudangku/internal/web/handler/health"
	"github.com/gudangku/gudangku/internal/web/handler/item"
	userhandler "github.com/gudangku/gudangku/internal/web/handler/user"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the configured address.
func (s *Service) Start() error {
	addr := fmt.Sprintf("%s:%d", s.deps.Cfg.Webserver.Domain, s.deps.Cfg.Webserver.Port)

	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: the liveness probe starts
	// failing first so the LB removes this pod from active targets.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 for %d seconds to let the LB drain this pod",
			s.deps.Cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.deps.Cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given dependencies.
func New(deps *handler.Deps) *Service {
	if deps == nil || deps.Cfg == nil || deps.DB == nil || deps.Gate == nil {
		panic("web service dependencies incomplete")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "gudangku",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !deps.Cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	if deps.Cfg.Log.EnableAccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Config:    deps.Cfg.Log,
			HealthURI: "/checkalive",
		}))
	}

	service := &Service{
		App:  app,
		deps: deps,
	}
	service.alive.Store(true)

	app.Get("/checkalive", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	// init handlers (they register their own routes with role checks)
	for _, h := range []handler.Service{
		&health.Handler,
		&authhandler.Handler,
		&userhandler.Handler,
		&item.Handler,
	} {
		if err := h.Init(app, deps); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	return service
}
