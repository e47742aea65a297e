// Package authx guards the HTTP surface with HS256 bearer tokens.
package authx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmichel1/vigil/pkg/errx"
)

var authxErrors = errx.NewRegistry("AUTHX")

var (
	ErrInvalidToken = authxErrors.Register("INVALID_TOKEN", errx.TypeAuthorization, 401, "Invalid or expired token")
	ErrMissingToken = authxErrors.Register("MISSING_TOKEN", errx.TypeAuthorization, 401, "Missing bearer token")
)

// Claims carried by vigil service tokens.
type Claims struct {
	Subject string   `json:"sub_name"`
	Scopes  []string `json:"scopes"`
	jwt.RegisteredClaims
}

// TokenService issues and validates service tokens.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

// NewTokenService creates a token service. ttl defaults to one hour.
func NewTokenService(secretKey string, ttl time.Duration, issuer string) *TokenService {
	if ttl == 0 {
		ttl = time.Hour
	}
	if issuer == "" {
		issuer = "vigil"
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
	}
}

// Generate issues a signed token for a subject.
func (s *TokenService) Generate(subject string, scopes []string) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject: subject,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", errx.Wrap(err, "failed to sign token", errx.TypeInternal)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authxErrors.New(ErrInvalidToken).WithDetail("alg", t.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, authxErrors.NewWithCause(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, authxErrors.New(ErrInvalidToken)
	}
	return claims, nil
}
