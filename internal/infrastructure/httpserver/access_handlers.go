package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getAccessibleStages(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	stages := s.policy.AccessibleStages(role)
	caps := make([]permission.StageCapabilities, 0, len(stages))
	for _, st := range stages {
		caps = append(caps, s.policy.StageCapabilities(role, st))
	}
	return c.JSON(http.StatusOK, permission.AccessibleStagesResponse{
		Role:         role,
		Stages:       stages,
		Capabilities: caps,
		ViewAll:      s.policy.CanViewAllCards(role),
	})
}

func (s *Server) getStageCapabilities(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	stage := permission.StageName(c.Param("stage"))
	if !stage.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown stage")
	}
	return c.JSON(http.StatusOK, s.policy.StageCapabilities(role, stage))
}

// evaluateAccess answers unknown stages or actions with allowed=false rather than 400,
// matching how the evaluator treats them.
func (s *Server) evaluateAccess(c echo.Context) error {
	role, err := helpers.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}
	stage := permission.StageName(c.QueryParam("stage"))
	action := permission.Action(c.QueryParam("action"))
	if stage == "" || action == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "stage and action are required")
	}
	return c.JSON(http.StatusOK, permission.EvaluateAccessResponse{
		Role:    role,
		Stage:   stage,
		Action:  action,
		Allowed: s.evaluator.HasAccess(role, stage, action),
	})
}
