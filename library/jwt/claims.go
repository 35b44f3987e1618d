package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims identifies a user, Subject carries the user's external user_id.
type UserClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}
