package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims carried by admin API tokens.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the claims belong to an admin account.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == "admin"
}
