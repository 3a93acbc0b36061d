package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gudangku/gudangku/internal/db/controller/user"
	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/session"
	"github.com/gudangku/gudangku/internal/token"
)

type harness struct {
	app      *fiber.App
	gate     *Gate
	tokens   *token.Manager
	sessions *session.Store
	mr       *miniredis.Miniredis
	users    *user.Controller
	db       *gorm.DB
	now      func() time.Time
	advance  func(time.Duration)
}

func genKeys(t *testing.T) token.KeyPair {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return token.KeyPair{Private: priv, Public: pub}
}

func newHarness(t *testing.T, opts ...GateOption) *harness {
	t.Helper()

	base := time.Now()
	offset := time.Duration(0)
	now := func() time.Time { return base.Add(offset) }

	tokens, err := token.NewManager(token.Config{
		Issuer:      "gudangku-test",
		AccessTTL:   15 * time.Minute,
		RefreshTTL:  time.Hour,
		AccessKeys:  genKeys(t),
		RefreshKeys: genKeys(t),
	}, token.WithNow(now))
	require.NoError(t, err)

	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := session.NewStore(rdb, "session")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	users := user.New(db)
	gate := NewGate(tokens, sessions, users, opts...)

	app := fiber.New()
	app.Get("/any", Require(gate, models.RoleUser, models.RoleModerator, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(FromContext(c).ID)
	})
	app.Get("/elevated", Require(gate, models.RoleModerator, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("elevated")
	})
	app.Get("/moderators", Require(gate, models.RoleModerator), func(c *fiber.Ctx) error {
		return c.SendString("moderators")
	})
	app.Get("/nobody", Require(gate), func(c *fiber.Ctx) error {
		return c.SendString("unreachable")
	})

	return &harness{
		app:      app,
		gate:     gate,
		tokens:   tokens,
		sessions: sessions,
		mr:       mr,
		users:    users,
		db:       db,
		now:      now,
		advance: func(d time.Duration) {
			offset += d
			mr.FastForward(d)
		},
	}
}

// login creates a user with the given role and returns a live access token.
func (h *harness) login(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()

	u := &models.User{
		ID:       uuid.NewString(),
		Name:     "Test " + string(role),
		Email:    string(role) + "-" + uuid.NewString() + "@example.com",
		Password: "x",
		Role:     role,
		Verified: true,
	}
	require.NoError(t, h.db.Create(u).Error)

	issued, err := h.tokens.Issue(u.ID, token.Access)
	require.NoError(t, err)
	require.NoError(t, h.sessions.Put(t.Context(), issued.SessionID, u.ID, h.tokens.TTL(token.Access)))

	return u, issued.Token
}

func getWithCookie(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: cookie})
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

func readJSON(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &out))

	return out
}

func TestGateHappyPathCookie(t *testing.T) {
	h := newHarness(t)
	u, tok := h.login(t, models.RoleUser)

	resp := getWithCookie(t, h.app, "/any", tok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, u.ID, readBody(t, resp))
}

func TestGateHappyPathHeader(t *testing.T) {
	h := newHarness(t)
	_, tok := h.login(t, models.RoleUser)

	req := httptest.NewRequest("GET", "/any", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)

	resp, err := h.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateHeaderIgnoredWhenCookieOnly(t *testing.T) {
	h := newHarness(t, WithTokenSource(SourceCookieOnly))
	_, tok := h.login(t, models.RoleUser)

	req := httptest.NewRequest("GET", "/any", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)

	resp, err := h.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body := readJSON(t, resp)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "authentication required", body["message"])
}

func TestGateMissingCredential(t *testing.T) {
	h := newHarness(t)

	resp := getWithCookie(t, h.app, "/any", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "authentication required", readJSON(t, resp)["message"])
}

func TestGateRejectionsAreIndistinguishable(t *testing.T) {
	h := newHarness(t)

	// Expired: a token whose lifetime elapsed.
	_, expiredTok := h.login(t, models.RoleUser)
	h.advance(16 * time.Minute)

	// Revoked: session deleted out from under a valid token.
	_, revokedTok := h.login(t, models.RoleUser)
	_, err := h.sessions.Delete(t.Context(), sidOf(t, h, revokedTok))
	require.NoError(t, err)

	// Unknown principal: user row removed while the session stays live.
	orphan, orphanTok := h.login(t, models.RoleUser)
	require.NoError(t, h.db.Delete(&models.User{}, "id = ?", orphan.ID).Error)

	var bodies []map[string]string

	for _, tok := range []string{"garbage-token", expiredTok, revokedTok, orphanTok} {
		resp := getWithCookie(t, h.app, "/any", tok)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		bodies = append(bodies, readJSON(t, resp))
	}

	for _, body := range bodies {
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "authentication token is invalid or expired", body["message"])
	}
}

func sidOf(t *testing.T, h *harness, tok string) string {
	t.Helper()

	claims, err := h.tokens.Verify(tok, token.Access)
	require.NoError(t, err)

	return claims.SID
}

func TestGateRevokedSession(t *testing.T) {
	h := newHarness(t)
	_, tok := h.login(t, models.RoleUser)

	_, err := h.sessions.Delete(t.Context(), sidOf(t, h, tok))
	require.NoError(t, err)

	resp := getWithCookie(t, h.app, "/any", tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateSessionSubjectMismatch(t *testing.T) {
	h := newHarness(t)
	_, tok := h.login(t, models.RoleUser)

	sid := sidOf(t, h, tok)
	require.NoError(t, h.sessions.Put(t.Context(), sid, "someone-else", time.Hour))

	resp := getWithCookie(t, h.app, "/any", tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRefreshTokenRejectedOnAccessRoutes(t *testing.T) {
	h := newHarness(t)
	u, _ := h.login(t, models.RoleUser)

	issued, err := h.tokens.Issue(u.ID, token.Refresh)
	require.NoError(t, err)
	require.NoError(t, h.sessions.Put(t.Context(), issued.SessionID, u.ID, time.Hour))

	resp := getWithCookie(t, h.app, "/any", issued.Token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateFailsClosedWhenStoreDown(t *testing.T) {
	h := newHarness(t)
	_, tok := h.login(t, models.RoleUser)

	h.mr.Close()

	resp := getWithCookie(t, h.app, "/any", tok)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := readJSON(t, resp)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "something went wrong", body["message"])
}

func TestGuardFlatRoles(t *testing.T) {
	h := newHarness(t)
	_, userTok := h.login(t, models.RoleUser)
	_, modTok := h.login(t, models.RoleModerator)
	_, adminTok := h.login(t, models.RoleAdmin)

	tests := []struct {
		name string
		path string
		tok  string
		want int
	}{
		{name: "user on shared route", path: "/any", tok: userTok, want: fiber.StatusOK},
		{name: "user on elevated route", path: "/elevated", tok: userTok, want: fiber.StatusForbidden},
		{name: "moderator on elevated route", path: "/elevated", tok: modTok, want: fiber.StatusOK},
		{name: "admin on elevated route", path: "/elevated", tok: adminTok, want: fiber.StatusOK},
		{name: "admin does not imply moderator", path: "/moderators", tok: adminTok, want: fiber.StatusForbidden},
		{name: "moderator on own route", path: "/moderators", tok: modTok, want: fiber.StatusOK},
		{name: "empty allow-list denies admin", path: "/nobody", tok: adminTok, want: fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getWithCookie(t, h.app, tt.path, tt.tok)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.want == fiber.StatusForbidden {
				body := readJSON(t, resp)
				assert.Equal(t, "fail", body["status"])
				assert.Equal(t, "permission denied", body["message"])
			}
		})
	}
}

func TestGuardUsesFreshRole(t *testing.T) {
	h := newHarness(t)
	u, tok := h.login(t, models.RoleUser)

	resp := getWithCookie(t, h.app, "/elevated", tok)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Promotion takes effect without reissuing the token.
	require.NoError(t, h.db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("role", models.RoleModerator).Error)

	resp = getWithCookie(t, h.app, "/elevated", tok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCheckRefresh(t *testing.T) {
	h := newHarness(t)
	u, _ := h.login(t, models.RoleUser)

	issued, err := h.tokens.Issue(u.ID, token.Refresh)
	require.NoError(t, err)
	require.NoError(t, h.sessions.Put(t.Context(), issued.SessionID, u.ID, time.Hour))

	app := fiber.New()
	app.Get("/refresh", func(c *fiber.Ctx) error {
		principal, authErr := h.gate.CheckRefresh(c, c.Cookies("refresh_token"))
		if authErr != nil {
			return c.Status(authErr.Status()).SendString(authErr.Message())
		}

		return c.SendString(principal.ID)
	})

	req := httptest.NewRequest("GET", "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: issued.Token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, u.ID, readBody(t, resp))

	// Missing cookie.
	resp, err = app.Test(httptest.NewRequest("GET", "/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Revoking the refresh session kills the flow.
	_, err = h.sessions.Delete(t.Context(), issued.SessionID)
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: issued.Token})

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
