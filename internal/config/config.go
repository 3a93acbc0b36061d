// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

const (
	defaultShutDownTime = 5
	defaultKeyPrefix    = "session"
	defaultTokenSource  = "cookie-then-header"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv("GUDANGKU_CONFIG_JSON")

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config override from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings for gudangku.
// The token key material itself is parsed later when the token manager
// is built, so only presence is checked here.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Redis.Addr == "" {
		return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
	}

	if c.Token.AccessTTLMinutes <= 0 || c.Token.RefreshTTLMinutes <= 0 {
		return errors.Wrap(ErrTokenTTLInvalid, invalidErrMessage)
	}

	if c.Token.AccessPrivateKey == "" || c.Token.AccessPublicKey == "" ||
		c.Token.RefreshPrivateKey == "" || c.Token.RefreshPublicKey == "" {
		return errors.Wrap(ErrTokenKeyMissing, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = defaultKeyPrefix
	}

	switch c.Webserver.TokenSource {
	case "":
		c.Webserver.TokenSource = defaultTokenSource
	case "cookie", "header", "cookie-then-header":
	default:
		return errors.Wrap(ErrUnknownTokenSource, invalidErrMessage)
	}

	return nil
}
