package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Console roles
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
)

// Application permissions
const (
	PermissionTransactionRead = "transactions:read"
	PermissionPricingRead     = "pricing:read"
	PermissionReportsExport   = "reports:export"
)

// ConsoleClaims are the claims of a console session token. Tokens are issued by
// the auth service; this service only verifies them.
type ConsoleClaims struct {
	jwt.RegisteredClaims
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	PartnerID   string   `json:"partner_id,omitempty"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *ConsoleClaims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// IsAdmin reports whether the token belongs to an admin console user.
func (c *ConsoleClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionTransactionRead,
			PermissionPricingRead,
			PermissionReportsExport,
		}
	case RolePartner:
		return []string{
			PermissionTransactionRead,
		}
	default:
		return []string{}
	}
}
