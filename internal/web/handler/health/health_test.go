package health

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gudangku/gudangku/internal/web/handler"
)

func TestHealthchecker(t *testing.T) {
	app := fiber.New()

	var svc Service
	require.NoError(t, svc.Init(app, &handler.Deps{}))

	resp, err := app.Test(httptest.NewRequest("GET", Path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "100% healthy", body["message"])
}
