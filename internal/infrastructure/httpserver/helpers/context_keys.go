package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/content-board/internal/core/domain/permission"
)

type ctxKey string

const (
	keyUserID   ctxKey = "user_id"
	keyTeamID   ctxKey = "team_id"
	keyUserRole ctxKey = "user_role"
)

func SetUserID(c echo.Context, id uuid.UUID) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyUserID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func SetTeamID(c echo.Context, id uuid.UUID) { c.Set(string(keyTeamID), id) }
func GetTeamIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyTeamID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func SetUserRole(c echo.Context, r permission.Role) { c.Set(string(keyUserRole), r) }
func GetUserRoleRaw(c echo.Context) (permission.Role, bool) {
	v := c.Get(string(keyUserRole))
	r, ok := v.(permission.Role)
	return r, ok
}
