package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/content-board/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT     *JWTMiddleware
	Team    *TeamMiddleware
	Logging *LoggingMiddleware
	Perm    *PermMiddleware
	Metrics *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	tokenService ports.TokenService,
	evaluator ports.PermissionEvaluator,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:     NewJWTMiddleware(tokenService, logger),
		Team:    NewTeamMiddleware(logger),
		Logging: NewLoggingMiddleware(logger),
		Perm:    NewPermMiddleware(evaluator),
		Metrics: NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
