package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/content-board/configs"
	"github.com/avatarctic/content-board/internal/core/domain/auth"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenService struct {
	jwtConfig *configs.JWTConfig
}

func NewTokenService(jwtConfig *configs.JWTConfig) ports.TokenService {
	return &TokenService{jwtConfig: jwtConfig}
}

// IssueToken signs claims with HS256, filling issued-at and issuer when unset
func (s *TokenService) IssueToken(claims *auth.Claims) (string, error) {
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(time.Now())
	}
	if claims.Issuer == "" {
		claims.Issuer = s.jwtConfig.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
}

func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.jwtConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtConfig.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("token carries unknown role %q", claims.Role)
	}
	if claims.UserID == uuid.Nil || claims.TeamID == uuid.Nil {
		return nil, fmt.Errorf("token is missing user or team")
	}
	return claims, nil
}
