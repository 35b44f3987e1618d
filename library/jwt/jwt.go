// Package jwt parses the bearer tokens handed out by the identity provider.
package jwt

import (
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken indicates the Authorization header carried no token.
	ErrMissingToken = errors.New("authorization token required")
	// ErrInvalidToken indicates the token failed signature or claim validation.
	ErrInvalidToken = errors.New("invalid authorization token")
)

// JWT signs and verifies HS256 user tokens.
type JWT struct {
	secret []byte
	parser *jwt.Parser
}

// New creates a JWT codec bound to secret.
func New(secret []byte) (*JWT, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}

	return &JWT{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(5*time.Second),
		),
	}, nil
}

// Sign issues a token for claims.
func (j *JWT) Sign(claims *UserClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return token, nil
}

// Parse verifies token and returns its claims.
func (j *JWT) Parse(token string) (*UserClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	claims := new(UserClaims)
	if _, err := j.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if claims.Subject == "" {
		return nil, errors.Wrap(ErrInvalidToken, "token has no subject")
	}

	return claims, nil
}

// StripAuthPrefix removes the "JWT " or "Bearer " scheme from an Authorization header.
func StripAuthPrefix(header string) string {
	trimmed := strings.TrimSpace(header)
	for _, scheme := range []string{"jwt ", "bearer "} {
		if len(trimmed) >= len(scheme) && strings.EqualFold(trimmed[:len(scheme)], scheme) {
			return strings.TrimSpace(trimmed[len(scheme):])
		}
	}

	return trimmed
}
