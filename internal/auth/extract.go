package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenSource selects where the gate looks for the access credential.
type TokenSource int

const (
	// SourceCookieThenHeader tries the cookie first and falls back to the
	// Authorization header when the cookie is absent.
	SourceCookieThenHeader TokenSource = iota
	// SourceCookieOnly ignores the Authorization header entirely.
	SourceCookieOnly
	// SourceHeaderOnly ignores the cookie entirely.
	SourceHeaderOnly
)

// ParseTokenSource maps the config value to a TokenSource.
func ParseTokenSource(s string) (TokenSource, error) {
	switch s {
	case "", "cookie-then-header":
		return SourceCookieThenHeader, nil
	case "cookie":
		return SourceCookieOnly, nil
	case "header":
		return SourceHeaderOnly, nil
	default:
		return 0, fmt.Errorf("unknown token source %q", s)
	}
}

const bearerPrefix = "Bearer "

// extractToken pulls the raw credential out of the request according to
// the configured source. A present but unusable Authorization header is
// a malformed credential, not a missing one.
func extractToken(c *fiber.Ctx, source TokenSource, cookieName string) (string, *Error) {
	if source != SourceHeaderOnly {
		if cookie := c.Cookies(cookieName); cookie != "" {
			return cookie, nil
		}
	}

	if source == SourceCookieOnly {
		return "", NewError(CodeMissing, nil)
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", NewError(CodeMissing, nil)
	}

	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", NewError(CodeMalformed, fmt.Errorf("unsupported authorization header"))
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", NewError(CodeMalformed, fmt.Errorf("empty bearer token"))
	}

	return token, nil
}
