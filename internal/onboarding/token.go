package onboarding

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SetupClaims are the claims carried by a setup token. The token is handed
// out after a successful code verification and authorizes exactly one thing:
// setting the initial password for the email it names.
type SetupClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses short-lived setup tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the given HMAC secret and token
// lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a setup token for the given email and role.
func (t *TokenIssuer) Issue(email, role string) (string, error) {
	now := t.now()
	claims := SetupClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing setup token: %w", err)
	}
	return signed, nil
}

// Parse validates a setup token and returns its claims. Expired or tampered
// tokens are rejected.
func (t *TokenIssuer) Parse(tokenStr string) (*SetupClaims, error) {
	claims := &SetupClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing setup token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid setup token")
	}
	return claims, nil
}
