// Package jwttoken verifies the HMAC-signed access tokens the membership
// system's identity provider issues to ward auditors.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "wardaudit/pkg/domain-errors"
)

// clockSkew tolerates small drift between the identity provider and us.
const clockSkew = 30 * time.Second

// Claims are the access token claims. Subject is the actor id.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	key    []byte
	parser *jwt.Parser
	issuer string
	aud    string
}

func NewJWTService(signingKey, issuer, audience string) *JWTService {
	return &JWTService{
		key:    []byte(signingKey),
		issuer: issuer,
		aud:    audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// GenerateAccessToken signs a token for actorID. Only the token command and
// tests mint tokens; production callers bring their own.
func (s *JWTService) GenerateAccessToken(actorID, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   actorID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.aud},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// ValidateToken verifies signature, issuer, audience and expiry. Every failure
// is CodeUnauthorized.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}
