package ports

import (
	"context"

	"github.com/avatarctic/content-board/internal/core/domain/auth"
)

// TokenService verifies access tokens. Issuing lives with the identity service;
// IssueToken exists for tooling and tests.
type TokenService interface {
	ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error)
	IssueToken(claims *auth.Claims) (string, error)
}
