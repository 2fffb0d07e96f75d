// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization and request tracing middleware
// for the fiber web framework.
package middleware

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"feeview/internal/models"
	"feeview/internal/utils/response"
)

// ClaimsKey is the fiber.Ctx locals key holding *models.ConsoleClaims.
const ClaimsKey = "claims"

// AuthMiddleware validates console session tokens.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Handler validates the bearer token and stores its claims in the request
// context. It checks for:
// - Presence of Authorization header with Bearer token
// - HS256 signature and expiry
// - A known role, and a partner id on partner tokens
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.Parse(tokenString)
	if err != nil {
		slog.Warn("token validation failed", "error", err, "request_id", RequestIDFrom(c))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(ClaimsKey, claims)
	return c.Next()
}

// Parse verifies tokenString and returns its claims.
func (m *AuthMiddleware) Parse(tokenString string) (*models.ConsoleClaims, error) {
	claims := &models.ConsoleClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	switch claims.Role {
	case models.RoleAdmin:
	case models.RolePartner:
		if claims.PartnerID == "" {
			return nil, fmt.Errorf("partner token without partner_id")
		}
	default:
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
	return claims, nil
}

// ClaimsFrom returns the claims stored by AuthMiddleware.
func ClaimsFrom(c *fiber.Ctx) (*models.ConsoleClaims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*models.ConsoleClaims)
	return claims, ok && claims != nil
}

// RequireRole only lets through tokens with one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return response.Unauthorized(c)
		}
		if !slices.Contains(roles, claims.Role) {
			slog.Warn("access denied", "role", claims.Role, "path", c.Path(), "request_id", RequestIDFrom(c))
			return response.Error(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return response.Unauthorized(c)
		}

		// If user is admin, allow all permissions
		if claims.IsAdmin() || claims.HasPermission(permission) {
			return c.Next()
		}

		return response.Error(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
