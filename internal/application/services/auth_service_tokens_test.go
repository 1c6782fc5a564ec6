package services_test

import (
	"context"
	"testing"
	"time"

	config "github.com/avatarctic/content-board/configs"
	impl "github.com/avatarctic/content-board/internal/application/services"
	"github.com/avatarctic/content-board/internal/core/domain/auth"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newClaims(role permission.Role) *auth.Claims {
	return &auth.Claims{
		UserID: uuid.New(),
		TeamID: uuid.New(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// Test: a token issued by the service validates and round-trips its claims
func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := impl.NewTokenService(&config.JWTConfig{Secret: "s3cret", Issuer: "identity"})
	claims := newClaims(permission.RoleEditor)

	token, err := svc.IssueToken(claims)
	require.NoError(t, err)

	got, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, claims.UserID, got.UserID)
	require.Equal(t, claims.TeamID, got.TeamID)
	require.Equal(t, permission.RoleEditor, got.Role)
	require.Equal(t, "identity", got.Issuer)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := impl.NewTokenService(&config.JWTConfig{Secret: "one"})
	verifier := impl.NewTokenService(&config.JWTConfig{Secret: "two"})

	token, err := issuer.IssueToken(newClaims(permission.RoleMember))
	require.NoError(t, err)
	_, err = verifier.ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := impl.NewTokenService(&config.JWTConfig{Secret: "s"})
	claims := newClaims(permission.RoleMember)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	token, err := svc.IssueToken(claims)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestTokenService_RejectsForeignIssuer(t *testing.T) {
	token, err := impl.NewTokenService(&config.JWTConfig{Secret: "s", Issuer: "elsewhere"}).IssueToken(newClaims(permission.RoleMember))
	require.NoError(t, err)

	_, err = impl.NewTokenService(&config.JWTConfig{Secret: "s", Issuer: "identity"}).ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestTokenService_RejectsUnknownRoleAndMissingTeam(t *testing.T) {
	svc := impl.NewTokenService(&config.JWTConfig{Secret: "s"})

	token, err := svc.IssueToken(newClaims(permission.Role("owner")))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)

	claims := newClaims(permission.RoleMember)
	claims.TeamID = uuid.Nil
	token, err = svc.IssueToken(claims)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := impl.NewTokenService(&config.JWTConfig{Secret: "s"})
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, newClaims(permission.RoleAdmin)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), unsigned)
	require.Error(t, err)
}
