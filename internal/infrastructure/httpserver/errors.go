package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/content-board/internal/core/ports"
)

// mapBoardError converts typed board rejections into HTTP errors. Anything else
// is logged and reported as 500 without its message.
func (s *Server) mapBoardError(c echo.Context, err error) error {
	var be ports.BoardError
	if errors.As(err, &be) {
		switch be.Code() {
		case ports.BoardCodeNotFound:
			return echo.NewHTTPError(http.StatusNotFound, be.Message())
		case ports.BoardCodeForbidden:
			return echo.NewHTTPError(http.StatusForbidden, be.Message())
		case ports.BoardCodeInvalidTarget:
			return echo.NewHTTPError(http.StatusUnprocessableEntity, be.Message())
		case ports.BoardCodeConflict:
			return echo.NewHTTPError(http.StatusConflict, be.Message())
		case ports.BoardCodeInvalidInput:
			return echo.NewHTTPError(http.StatusBadRequest, be.Message())
		}
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"path": c.Path(), "method": c.Request().Method}).WithError(err).Error("unhandled board error")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
