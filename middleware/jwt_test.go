package middleware

import (
	"academy/config"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", c.Locals("userId"))
	})
	return app
}

func requestWithToken(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/protected", nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestJWTMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "middleware-test-secret"}
	app := protectedApp()

	t.Run("accepts a generated token", func(t *testing.T) {
		token, err := GenerateJWT(7, "Tester", "USER", "tester@example.com")
		require.NoError(t, err)
		resp := requestWithToken(t, app, token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		resp := requestWithToken(t, app, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		claims := jwt.MapClaims{"userId": 7, "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)
		resp := requestWithToken(t, app, token)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a non-numeric userId claim", func(t *testing.T) {
		// Validly signed but malformed; must come back 401, never panic
		claims := jwt.MapClaims{"userId": "not-a-number", "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(config.AppConfig.JWTKey))
		require.NoError(t, err)
		resp := requestWithToken(t, app, token)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
