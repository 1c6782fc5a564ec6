package auth

import (
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the access token payload issued by the identity service. The board
// only needs the acting user, their role and their team.
type Claims struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   permission.Role `json:"role"`
	TeamID uuid.UUID       `json:"team_id"`

	jwt.RegisteredClaims
}
