// Package utils provides the password hasher and the token codec used by
// the auth core.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two token flavors a codec can issue. Both are
// HS256 JWTs signed with the same secret; the kind travels as a claim and
// Verify refuses a token presented as the wrong kind.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// ErrInvalidToken is the single failure outcome of Verify. Malformed,
// forged, expired and wrong-kind tokens all collapse into it so callers
// cannot leak which check failed.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec issues and verifies signed, expiring tokens. The secret and
// TTLs are injected once at construction and never change afterwards.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec builds a codec from the startup configuration: access TTL
// in minutes, refresh TTL in days.
func NewTokenCodec(secret string, accessTTLMin, refreshTTLDays int) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// Issue signs a token carrying the subject (login identifier), role and
// kind. The expiry depends on the kind: minutes for access, days for
// refresh. It returns the serialized JWT and its expiration time.
func (c *TokenCodec) Issue(subject, role string, kind TokenKind) (string, time.Time, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"kind": string(kind),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, expiry and kind, returning the subject and role
// claims. Every failure mode returns ErrInvalidToken.
func (c *TokenCodec) Verify(raw string, kind TokenKind) (subject, role string, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	if k, _ := claims["kind"].(string); k != string(kind) {
		return "", "", ErrInvalidToken
	}
	subject, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if subject == "" || role == "" {
		return "", "", ErrInvalidToken
	}
	return subject, role, nil
}
