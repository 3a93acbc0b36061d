package config

import (
	"time"

	"github.com/gudangku/gudangku/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Redis     Redis
	Log       logger.Log
	Title     string
	Token     Token
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	DisableRecover bool   // disable recover middleware
	TokenSource    string // bearer token extraction strategy: cookie, header or cookie-then-header
}

// Redis holds the session registry connection settings.
type Redis struct {
	Addr      string // host:port of the redis instance
	Password  string
	DB        int
	KeyPrefix string // namespace prefix for session keys
}

// Token holds the bearer token settings. Access and refresh tokens are
// signed with distinct Ed25519 key pairs; all keys are base64 encoded.
type Token struct {
	Issuer            string
	AccessTTLMinutes  int
	RefreshTTLMinutes int

	AccessPrivateKey  string
	AccessPublicKey   string
	RefreshPrivateKey string
	RefreshPublicKey  string
}

// AccessTTL returns the access token lifetime as a duration.
func (t Token) AccessTTL() time.Duration {
	return time.Duration(t.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (t Token) RefreshTTL() time.Duration {
	return time.Duration(t.RefreshTTLMinutes) * time.Minute
}
