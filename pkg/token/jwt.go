package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ameblo/vouch/core"
)

const DefaultTTL = time.Hour

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// JWT issues and verifies HS256-signed session tokens.
//
// Validity is entirely determined by signature and expiry; there is no
// revocation list, so an issued token stays valid until it expires.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ core.TokenIssuer = (*JWT)(nil)

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token bound to the user's id and email.
func (j *JWT) Issue(userID, email string) (string, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
		Email:  email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the identity claims.
// Any failure maps to core.ErrInvalidToken; no other claims are checked.
func (j *JWT) Verify(tokenString string) (*core.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.ErrInvalidToken
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, core.ErrInvalidToken
	}

	return &core.TokenClaims{UserID: claims.UserID, Email: claims.Email}, nil
}
