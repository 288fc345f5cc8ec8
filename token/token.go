// Package token issues and validates signed, time-limited identity tokens.
package token

import (
	"errors"
	"strconv"
	"time"

	"notes-api/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID int64       `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Provider struct {
	secret []byte
	ttl    time.Duration
}

func NewProvider(secret []byte, ttl time.Duration) *Provider {
	return &Provider{secret: secret, ttl: ttl}
}

// Issue signs an HS256 token carrying the user's identity and role.
func (p *Provider) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Parse validates signature, expiry and signing method, and returns the
// claims. Any failure is reported as ErrInvalidToken.
func (p *Provider) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
