package httpserver

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

// requireCardInActorTeam resolves the card within the actor's team. Cards of
// other teams are reported as 404 whatever their stage, so ids do not leak.
func (s *Server) requireCardInActorTeam(c echo.Context, role permission.Role, cardID uuid.UUID) (*card.Card, error) {
	actorTeam, err := helpers.GetTeamIDFromContext(c)
	if err != nil {
		return nil, err
	}
	found, err := s.cards.GetCard(c.Request().Context(), role, actorTeam, cardID)
	if err != nil {
		return nil, s.mapBoardError(c, err)
	}
	return found, nil
}
