package service

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// TokenService issues and validates HMAC-SHA512 signed bearer tokens.
// Tokens are stateless: validity is entirely a function of signature and
// expiry, there is no server-side session.
type TokenService struct {
	key []byte
	ttl time.Duration
}

// NewTokenService builds a TokenService from a base64-encoded secret.
func NewTokenService(base64Secret string, ttl time.Duration) (*TokenService, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("token service: decode secret: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("token service: empty secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{key: key, ttl: ttl}, nil
}

// Issue produces a signed token with subject=username, the user id, and the
// caller's role authorities as claims.
func (s *TokenService) Issue(userID int64, username string, roles []domain.Role) (string, error) {
	authorities := make([]string, len(roles))
	for i, r := range roles {
		authorities[i] = string(r)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         username,
		"userId":      userID,
		"authorities": authorities,
		"iat":         now.Unix(),
		"exp":         now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return t.SignedString(s.key)
}

// Validate reports whether the token's signature verifies and it has not
// expired. Malformed or tampered tokens never propagate an error past this
// boundary: every parse failure degrades to false.
func (s *TokenService) Validate(token string) bool {
	parsed, err := jwt.Parse(token, s.keyFunc)
	return err == nil && parsed.Valid
}

// ExtractClaims parses the token and returns the identity claims it carries.
// The signature is verified during parsing, but callers making authorization
// decisions are expected to have checked Validate first.
func (s *TokenService) ExtractClaims(token string) (domain.Claims, error) {
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, s.keyFunc); err != nil {
		return domain.Claims{}, fmt.Errorf("parse token: %w", err)
	}

	username, _ := claims["sub"].(string)

	var userID int64
	if v, ok := claims["userId"].(float64); ok {
		userID = int64(v)
	}

	var roles []domain.Role
	if raw, ok := claims["authorities"].([]interface{}); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				roles = append(roles, domain.Role(s))
			}
		}
	}

	return domain.Claims{UserID: userID, Username: username, Roles: roles}, nil
}

// ExtractUsername returns the subject claim of the token.
func (s *TokenService) ExtractUsername(token string) (string, error) {
	c, err := s.ExtractClaims(token)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}

// ExtractUserID returns the userId claim of the token.
func (s *TokenService) ExtractUserID(token string) (int64, error) {
	c, err := s.ExtractClaims(token)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS512.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.key, nil
}
