package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

type PermMiddleware struct {
	evaluator ports.PermissionEvaluator
}

func NewPermMiddleware(evaluator ports.PermissionEvaluator) *PermMiddleware {
	return &PermMiddleware{evaluator: evaluator}
}

func (m *PermMiddleware) RequireCapability(capability permission.GlobalCapability) echo.MiddlewareFunc {
	return m.RequireAnyCapability(capability)
}

func (m *PermMiddleware) RequireAnyCapability(caps ...permission.GlobalCapability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := helpers.GetUserRoleFromContext(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing role")
			}
			for _, capability := range caps {
				if m.evaluator.HasGlobalCapability(role, capability) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
