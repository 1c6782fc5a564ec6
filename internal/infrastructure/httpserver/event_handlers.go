package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listEvents(c echo.Context) error {
	teamID, err := helpers.ParseUUIDParam(c, "team_id")
	if err != nil {
		return err
	}
	filter := event.ListFilter{TeamID: teamID}
	if v := c.QueryParam("since"); v != "" {
		since, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid since")
		}
		filter.Since = since
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}

	events, err := s.events.ListEvents(c.Request().Context(), &filter)
	if err != nil {
		return s.mapBoardError(c, err)
	}
	next := filter.Since
	if len(events) > 0 {
		next = events[len(events)-1].Seq
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events, "next_since": next})
}
