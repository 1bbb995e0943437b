package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/facturx-fr/facturation-api/internal/interfaces/http"
	pkgjwt "github.com/facturx-fr/facturation-api/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testPlatformID = "PA-0042"
	testSIREN      = "123456789"
	testIssuer     = "facturation-api-test"
	testExpMin     = 60
)

func buildProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"platform_id": apphttp.GetPlatformID(c),
				"siren":       apphttp.GetSIREN(c),
			})
		},
	)
	return app
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testPlatformID, testSIREN, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	app := buildProtectedApp()

	t.Run("jeton valide", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", validToken(t))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("en-tête absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("schéma incorrect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("jeton forgé", func(t *testing.T) {
		otherSecret, err := pkgjwt.Generate("autre-secret", testPlatformID, testSIREN, testIssuer, testExpMin)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+otherSecret)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("jeton vide", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer ")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
