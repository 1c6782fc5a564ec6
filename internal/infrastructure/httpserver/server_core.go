package httpserver

import (
	"time"

	"github.com/avatarctic/content-board/internal/core/ports"
	customMiddleware "github.com/avatarctic/content-board/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/content-board/internal/infrastructure/metrics"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
	MetricsEnabled bool
	MetricsPath    string
}

type ServerDeps struct {
	TokenService      ports.TokenService
	Evaluator         ports.PermissionEvaluator
	Policy            ports.StageAccessPolicy
	TransitionService ports.StageTransitionService
	CardService       ports.CardService
	EventService      ports.EventService
	HealthCheckers    []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	evaluator      ports.PermissionEvaluator
	policy         ports.StageAccessPolicy
	transitions    ports.StageTransitionService
	cards          ports.CardService
	events         ports.EventService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	if serverConfig.MetricsPath == "" {
		serverConfig.MetricsPath = "/metrics"
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		evaluator:      deps.Evaluator,
		policy:         deps.Policy,
		transitions:    deps.TransitionService,
		cards:          deps.CardService,
		events:         deps.EventService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.TokenService,
			deps.Evaluator,
			logger,
			metrics.RequestsTotal(),
			metrics.RequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
