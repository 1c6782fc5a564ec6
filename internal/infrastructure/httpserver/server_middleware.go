package httpserver

import (
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	if len(s.config.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: s.config.AllowedOrigins}))
	} else {
		s.echo.Use(middleware.CORS())
	}

	if s.config.MetricsEnabled {
		s.echo.Use(s.middleware.Metrics.CollectHTTPMetrics())
	}
	s.echo.Use(s.middleware.Logging.RequestLogging())
}
