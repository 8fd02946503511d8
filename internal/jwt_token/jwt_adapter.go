package jwttoken

import (
	authmw "wardaudit/pkg/platform/middleware/auth"
)

// JWTServiceAdapter lets the auth middleware validate tokens without
// depending on the jwt library.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{UserID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}
