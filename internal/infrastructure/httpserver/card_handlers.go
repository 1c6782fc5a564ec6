package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

type createCardRequest struct {
	StageID     uuid.UUID     `json:"stage_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    card.Priority `json:"priority"`
	AssigneeID  *uuid.UUID    `json:"assignee_id,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
}

// patchCardRequest carries ordering and field changes in one flat body
type patchCardRequest struct {
	StageID     *uuid.UUID     `json:"stage_id,omitempty"`
	Position    *int           `json:"position,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Priority    *card.Priority `json:"priority,omitempty"`
	AssigneeID  *uuid.UUID     `json:"assignee_id,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
}

func (r patchCardRequest) changes() card.CardChanges {
	return card.CardChanges{
		StageID:  r.StageID,
		Position: r.Position,
		Fields: card.CardFields{
			Title:       r.Title,
			Description: r.Description,
			Priority:    r.Priority,
			AssigneeID:  r.AssigneeID,
			DueDate:     r.DueDate,
		},
	}
}

func (s *Server) listCards(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	teamID, err := helpers.ParseUUIDParam(c, "team_id")
	if err != nil {
		return err
	}
	board, err := s.cards.ListCards(c.Request().Context(), role, teamID)
	if err != nil {
		return s.mapBoardError(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) createCard(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	teamID, err := helpers.ParseUUIDParam(c, "team_id")
	if err != nil {
		return err
	}
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req createCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.StageID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "stage_id is required")
	}

	created, err := s.cards.CreateCard(c.Request().Context(), role, &card.CreateCardRequest{
		TeamID:      teamID,
		StageID:     req.StageID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		CreatedBy:   &userID,
	})
	if err != nil {
		return s.mapBoardError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) getCard(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	found, err := s.requireCardInActorTeam(c, role, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, found)
}

func (s *Server) applyCardChange(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req patchCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := s.requireCardInActorTeam(c, role, id); err != nil {
		return err
	}

	updated, err := s.transitions.ApplyCardChange(c.Request().Context(), role, id, req.changes())
	if err != nil {
		return s.mapBoardError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteCard(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.requireCardInActorTeam(c, role, id); err != nil {
		return err
	}
	if err := s.cards.DeleteCard(c.Request().Context(), role, id); err != nil {
		return s.mapBoardError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
