package httpserver

import (
	"github.com/avatarctic/content-board/internal/core/domain/permission"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	if s.config.MetricsEnabled {
		s.echo.GET(s.config.MetricsPath, s.metricsEndpoint)
	}

	api := s.echo.Group("/api/v1")
	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	access := protected.Group("/access")
	access.GET("/stages", s.getAccessibleStages)
	access.GET("/stages/:stage", s.getStageCapabilities)
	access.GET("/evaluate", s.evaluateAccess)

	teams := protected.Group("/teams/:team_id", s.middleware.Team.RequireTeamMember())
	teams.GET("/cards", s.listCards)
	teams.POST("/cards", s.createCard)
	teams.GET("/events", s.listEvents, s.middleware.Perm.RequireAnyCapability(permission.CapViewAll, permission.CapGlobalView))

	cards := protected.Group("/cards")
	cards.GET("/:id", s.getCard)
	cards.PATCH("/:id", s.applyCardChange)
	cards.DELETE("/:id", s.deleteCard)
}
