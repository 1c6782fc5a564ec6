package ports

import "context"

// HealthChecker probes a dependency; a nil error means healthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
