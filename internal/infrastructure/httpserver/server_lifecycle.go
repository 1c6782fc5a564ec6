package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Start blocks serving the board API. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.LogMetricsInitialization()

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.echo.Server = httpServer

	fields := logrus.Fields{"addr": addr, "environment": s.config.Environment, "metrics": s.config.MetricsEnabled}
	if s.config.TLSCertFile != "" && s.config.TLSKeyFile != "" {
		s.logger.WithFields(fields).Info("Starting HTTPS server")
		return httpServer.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	}
	if s.config.Environment == "production" {
		s.logger.Warn("TLS certificates not configured; serving plain HTTP")
	}
	s.logger.WithFields(fields).Info("Starting HTTP server")
	return httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Draining HTTP connections")
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router, mainly so tests can drive it with httptest
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
