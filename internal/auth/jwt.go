package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the console reads from a storefront login token.
type Claims struct {
	UserID   string
	IsAdmin  bool
	HasAdmin bool // the token carried an isAdmin claim
}

// ParseClaims reads the token payload without verifying the signature. The
// console never holds the API's signing key; the API checks the token on every
// call it is forwarded with.
func ParseClaims(tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return Claims{}, fmt.Errorf("parsing login token: %w", err)
	}

	var c Claims
	if id, ok := claims["userId"].(string); ok {
		c.UserID = id
	} else if sub, err := claims.GetSubject(); err == nil {
		c.UserID = sub
	}
	if admin, ok := claims["isAdmin"].(bool); ok {
		c.IsAdmin = admin
		c.HasAdmin = true
	}
	return c, nil
}
