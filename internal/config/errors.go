package config

import "errors"

var (
	// ErrWebServerPortCanNotBeZero is returned when no webserver listening port was configured.
	ErrWebServerPortCanNotBeZero = errors.New("webserver port can not be 0")

	// ErrEmptyURL is returned when the webserver base url was not configured.
	ErrEmptyURL = errors.New("webserver url can not be empty")

	// ErrEmptyRedisAddr is returned when no redis address was configured.
	ErrEmptyRedisAddr = errors.New("redis addr can not be empty")

	// ErrTokenTTLInvalid is returned when a token lifetime is zero or negative.
	ErrTokenTTLInvalid = errors.New("token ttl must be greater than 0")

	// ErrTokenKeyMissing is returned when one of the four token signing keys is absent.
	ErrTokenKeyMissing = errors.New("token key material is incomplete")

	// ErrUnknownTokenSource is returned when the token extraction strategy is not recognised.
	ErrUnknownTokenSource = errors.New("unknown token source, use cookie, header or cookie-then-header")
)
