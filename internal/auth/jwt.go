package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature verified but the token is past exp.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the token is malformed or its signature does not verify.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the payload of an access token: the user's email as subject
// plus their role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies stateless access tokens with a
// process-wide HMAC key. The key is read-only after construction, so a
// single TokenManager is safe for concurrent use.
type TokenManager struct {
	key       []byte
	accessTTL time.Duration
}

// NewTokenManager decodes the base64 signing secret and builds the codec.
// A malformed or empty secret is a configuration error: the caller must not
// serve traffic with it.
func NewTokenManager(base64Secret string, accessTTL time.Duration) (*TokenManager, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("jwt secret is not valid base64: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}
	return &TokenManager{key: key, accessTTL: accessTTL}, nil
}

// Generate mints a signed access token for the given subject (email) and role.
func (m *TokenManager) Generate(subject, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// Parse verifies the signature and expiry of a token and returns its claims.
// The signature is always checked before any claim is trusted; an expired
// token with a valid signature yields ErrTokenExpired, everything else
// yields ErrTokenInvalid.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExtractSubject verifies the token and returns its subject claim. It is a
// convenience over Parse; it never reads claims from an unverified token.
func (m *TokenManager) ExtractSubject(tokenString string) (string, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
