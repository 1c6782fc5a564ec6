package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	tokenService ports.TokenService
	logger       *logrus.Logger
}

func NewJWTMiddleware(tokenService ports.TokenService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{tokenService: tokenService, logger: logger}
}

// RequireJWT validates the bearer token and puts the actor's id, role and team on the context
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.tokenService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			helpers.SetUserID(c, claims.UserID)
			helpers.SetUserRole(c, claims.Role)
			helpers.SetTeamID(c, claims.TeamID)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": claims.UserID, "role": claims.Role, "team_id": claims.TeamID}).Debug("jwt validated and user context set")
			}
			return next(c)
		}
	}
}
