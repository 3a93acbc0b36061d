package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenSource(t *testing.T) {
	tests := []struct {
		in      string
		want    TokenSource
		wantErr bool
	}{
		{in: "", want: SourceCookieThenHeader},
		{in: "cookie-then-header", want: SourceCookieThenHeader},
		{in: "cookie", want: SourceCookieOnly},
		{in: "header", want: SourceHeaderOnly},
		{in: "bearer", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTokenSource(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)

			continue
		}

		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name      string
		source    TokenSource
		cookie    string
		header    string
		wantToken string
		wantCode  Code
	}{
		{
			name:      "cookie wins over header",
			source:    SourceCookieThenHeader,
			cookie:    "from-cookie",
			header:    "Bearer from-header",
			wantToken: "from-cookie",
		},
		{
			name:      "header fallback",
			source:    SourceCookieThenHeader,
			header:    "Bearer from-header",
			wantToken: "from-header",
		},
		{
			name:     "nothing at all",
			source:   SourceCookieThenHeader,
			wantCode: CodeMissing,
		},
		{
			name:      "cookie only ignores header",
			source:    SourceCookieOnly,
			header:    "Bearer from-header",
			wantCode:  CodeMissing,
			wantToken: "",
		},
		{
			name:      "header only ignores cookie",
			source:    SourceHeaderOnly,
			cookie:    "from-cookie",
			header:    "Bearer from-header",
			wantToken: "from-header",
		},
		{
			name:     "wrong scheme",
			source:   SourceHeaderOnly,
			header:   "Basic dXNlcjpwYXNz",
			wantCode: CodeMalformed,
		},
		{
			name:     "bare scheme no token",
			source:   SourceHeaderOnly,
			header:   "Bearer",
			wantCode: CodeMalformed,
		},
		{
			name:     "scheme with only whitespace",
			source:   SourceHeaderOnly,
			header:   "Bearer    ",
			wantCode: CodeMalformed,
		},
		{
			name:      "case insensitive scheme",
			source:    SourceHeaderOnly,
			header:    "bearer lowercase-ok",
			wantToken: "lowercase-ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				tok, authErr := extractToken(c, tt.source, DefaultCookieName)
				if authErr != nil {
					return c.Status(400).SendString(authErr.Code.String())
				}

				return c.SendString(tok)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			body := readBody(t, resp)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode.String(), body)

				return
			}

			assert.Equal(t, tt.wantToken, body)
		})
	}
}
