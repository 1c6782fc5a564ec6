package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const healthProbeTimeout = 2 * time.Second

type dependencyHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status       string                      `json:"status"`
	Service      string                      `json:"service"`
	Timestamp    string                      `json:"timestamp"`
	Dependencies map[string]dependencyHealth `json:"dependencies"`
}

// healthCheck probes every dependency in parallel and answers 503 when any fails
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthProbeTimeout)
	defer cancel()

	var mu sync.Mutex
	deps := make(map[string]dependencyHealth, len(s.healthCheckers))
	g, gctx := errgroup.WithContext(ctx)
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			err := hc.Check(gctx)
			result := dependencyHealth{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				result.Status = "unhealthy"
				result.Error = err.Error()
			}
			mu.Lock()
			deps[hc.Name()] = result
			mu.Unlock()
			// a failing probe must not cancel the others
			return nil
		})
	}
	_ = g.Wait()

	resp := healthResponse{
		Status:       "healthy",
		Service:      "content-board",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Dependencies: deps,
	}
	for _, d := range deps {
		if d.Status != "healthy" {
			resp.Status = "degraded"
			break
		}
	}
	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
