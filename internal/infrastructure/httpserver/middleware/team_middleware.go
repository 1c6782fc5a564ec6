package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

type TeamMiddleware struct {
	logger *logrus.Logger
}

func NewTeamMiddleware(logger *logrus.Logger) *TeamMiddleware {
	return &TeamMiddleware{logger: logger}
}

// RequireTeamMember rejects requests whose :team_id differs from the token's team.
// Admins may address any team.
func (t *TeamMiddleware) RequireTeamMember() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			teamID, err := helpers.ParseUUIDParam(c, "team_id")
			if err != nil {
				return err
			}
			role, err := helpers.GetUserRoleFromContext(c)
			if err != nil {
				return err
			}
			if role == permission.RoleAdmin {
				return next(c)
			}
			actorTeam, err := helpers.GetTeamIDFromContext(c)
			if err != nil {
				return err
			}
			if actorTeam != teamID {
				if t.logger != nil {
					t.logger.WithFields(logrus.Fields{"team_id": teamID, "actor_team_id": actorTeam}).Warn("cross-team request rejected")
				}
				return echo.NewHTTPError(http.StatusForbidden, "user does not belong to this team")
			}
			return next(c)
		}
	}
}
