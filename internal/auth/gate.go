// Package auth authenticates requests and gates routes by role. The
// pipeline is strict: a request only reaches a handler after its token
// verified, its session proved live, its user resolved and its role
// matched the route's allow-list. Any backing failure on the way fails
// closed.
package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/session"
	"github.com/gudangku/gudangku/internal/token"
)

// DefaultCookieName is the cookie the gate reads the access token from
// unless configured otherwise.
const DefaultCookieName = "access_token"

// UserLookup resolves the subject behind a live session.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	// ID is the subject id the credential was issued for.
	ID string
	// Role is the subject's current role, read fresh from the database.
	Role models.Role
	// SessionID is the live session backing this request.
	SessionID string
	// User is the full account record.
	User *models.User
}

// Gate authenticates requests. It is assembled once at startup and is
// safe for concurrent use.
type Gate struct {
	tokens     *token.Manager
	sessions   *session.Store
	users      UserLookup
	source     TokenSource
	cookieName string
}

// GateOption customises a Gate.
type GateOption func(*Gate)

// WithTokenSource sets where the gate looks for the access credential.
func WithTokenSource(source TokenSource) GateOption {
	return func(g *Gate) {
		g.source = source
	}
}

// WithCookieName overrides the access token cookie name.
func WithCookieName(name string) GateOption {
	return func(g *Gate) {
		g.cookieName = name
	}
}

// NewGate assembles a gate over the token manager, session registry and
// user lookup.
func NewGate(tokens *token.Manager, sessions *session.Store, users UserLookup, opts ...GateOption) *Gate {
	g := &Gate{
		tokens:     tokens,
		sessions:   sessions,
		users:      users,
		source:     SourceCookieThenHeader,
		cookieName: DefaultCookieName,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Authenticate runs the full access pipeline for a request: extract the
// credential, verify it, confirm the session is live and resolve the
// user. It never writes to the response; the caller decides how a
// rejection is rendered.
func (g *Gate) Authenticate(c *fiber.Ctx) (*Principal, *Error) {
	raw, authErr := extractToken(c, g.source, g.cookieName)
	if authErr != nil {
		return nil, authErr
	}

	return g.check(c, raw, token.Access)
}

// CheckRefresh runs the same session and user checks against a refresh
// credential. Extraction is up to the caller since refresh tokens only
// ever travel in their own cookie.
func (g *Gate) CheckRefresh(c *fiber.Ctx, raw string) (*Principal, *Error) {
	if raw == "" {
		return nil, NewError(CodeMissing, nil)
	}

	return g.check(c, raw, token.Refresh)
}

func (g *Gate) check(c *fiber.Ctx, raw string, kind token.Kind) (*Principal, *Error) {
	claims, err := g.tokens.Verify(raw, kind)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return nil, NewError(CodeExpired, err)
		case errors.Is(err, token.ErrUnknownKind):
			return nil, NewError(CodeInfra, err)
		default:
			return nil, NewError(CodeMalformed, err)
		}
	}

	ctx := c.UserContext()

	subjectID, ok, err := g.sessions.Get(ctx, claims.SID)
	if err != nil {
		return nil, NewError(CodeInfra, err)
	}

	if !ok || subjectID != claims.Subject {
		return nil, NewError(CodeRevoked, nil)
	}

	user, err := g.users.UserByID(ctx, claims.Subject)
	if err != nil {
		return nil, NewError(CodeInfra, err)
	}

	if user == nil {
		return nil, NewError(CodeUnknownPrincipal, nil)
	}

	return &Principal{
		ID:        user.ID,
		Role:      user.Role,
		SessionID: claims.SID,
		User:      user,
	}, nil
}
