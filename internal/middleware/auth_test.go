package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeview/internal/models"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims models.ConsoleClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	auth := NewAuthMiddleware(testSecret)
	chain := append([]fiber.Handler{RequestID(), auth.Handler}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		claims, _ := ClaimsFrom(c)
		return c.SendString(claims.Role)
	})
	app.Get("/", chain...)
	return app
}

func get(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp()

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "not-a-jwt", fiber.StatusUnauthorized},
		{"wrong secret", sign(t, "other", models.ConsoleClaims{Role: models.RoleAdmin}), fiber.StatusUnauthorized},
		{"expired", sign(t, testSecret, models.ConsoleClaims{
			Role:             models.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		}), fiber.StatusUnauthorized},
		{"unknown role", sign(t, testSecret, models.ConsoleClaims{Role: "merchant"}), fiber.StatusUnauthorized},
		{"partner without id", sign(t, testSecret, models.ConsoleClaims{Role: models.RolePartner}), fiber.StatusUnauthorized},
		{"admin", sign(t, testSecret, models.ConsoleClaims{Role: models.RoleAdmin}), fiber.StatusOK},
		{"partner", sign(t, testSecret, models.ConsoleClaims{Role: models.RolePartner, PartnerID: "p-1"}), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, app, tt.token)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	app := newApp(RequireRole(models.RoleAdmin))

	admin := sign(t, testSecret, models.ConsoleClaims{Role: models.RoleAdmin})
	partner := sign(t, testSecret, models.ConsoleClaims{Role: models.RolePartner, PartnerID: "p-1"})

	assert.Equal(t, fiber.StatusOK, get(t, app, admin).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, partner).StatusCode)
}

func TestHasPermission(t *testing.T) {
	app := newApp(HasPermission(models.PermissionReportsExport))

	admin := sign(t, testSecret, models.ConsoleClaims{Role: models.RoleAdmin})
	partner := sign(t, testSecret, models.ConsoleClaims{
		Role:        models.RolePartner,
		PartnerID:   "p-1",
		Permissions: []string{models.PermissionTransactionRead},
	})
	exporter := sign(t, testSecret, models.ConsoleClaims{
		Role:        models.RolePartner,
		PartnerID:   "p-1",
		Permissions: []string{models.PermissionReportsExport},
	})

	assert.Equal(t, fiber.StatusOK, get(t, app, admin).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, partner).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, exporter).StatusCode)
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequestID(), func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(fiber.HeaderXRequestID))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, id)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Header.Get(fiber.HeaderXRequestID))
}
