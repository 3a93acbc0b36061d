// Package daemon wires the backing services together and runs the app.
package daemon

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/gudangku/gudangku/internal/auth"
	"github.com/gudangku/gudangku/internal/config"
	"github.com/gudangku/gudangku/internal/db/controller/user"
	"github.com/gudangku/gudangku/internal/db/dsn"
	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/session"
	"github.com/gudangku/gudangku/internal/token"
	"github.com/gudangku/gudangku/internal/web"
	"github.com/gudangku/gudangku/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start()
}

// New creates a new Daemon instance with the provided configuration.
// Every backing service must come up before the listener does; a
// partially wired gate must never serve traffic.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(gormmysql.Open(dsn.Create(cfg)), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Item{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	sessions := session.NewStore(rdb, cfg.Redis.KeyPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = sessions.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("session store unreachable")
	}

	tokens, err := token.NewManager(token.Config{
		Issuer:      cfg.Token.Issuer,
		AccessTTL:   cfg.Token.AccessTTL(),
		RefreshTTL:  cfg.Token.RefreshTTL(),
		AccessKeys:  decodeKeyPair(cfg.Token.AccessPrivateKey, cfg.Token.AccessPublicKey),
		RefreshKeys: decodeKeyPair(cfg.Token.RefreshPrivateKey, cfg.Token.RefreshPublicKey),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init token manager")
	}

	source, err := auth.ParseTokenSource(cfg.Webserver.TokenSource)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token source")
	}

	gate := auth.NewGate(tokens, sessions, user.New(db), auth.WithTokenSource(source))

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Tokens:   tokens,
		Sessions: sessions,
		Gate:     gate,
	}

	return &Daemon{
		webService: web.New(deps),
	}
}

// decodeKeyPair decodes base64 encoded key material from the config.
func decodeKeyPair(privB64, pubB64 string) token.KeyPair {
	priv, err := base64.StdEncoding.DecodeString(privB64)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid base64 private key")
	}

	pub, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid base64 public key")
	}

	return token.KeyPair{Private: priv, Public: pub}
}
