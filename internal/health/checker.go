package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool and by the Google key-set verifier.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is one named readiness check.
type Dependency struct {
	Name   string
	Pinger Pinger
}

type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies that the service's dependencies are reachable.
type Checker struct {
	deps   []Dependency
	logger *slog.Logger
	gauge  *prometheus.GaugeVec
}

// NewChecker registers the health gauge on reg. The database is always
// checked; extra dependencies are appended after it.
func NewChecker(db Pinger, logger *slog.Logger, reg prometheus.Registerer, extra ...Dependency) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "calendar",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	deps := append([]Dependency{{Name: "postgres", Pinger: db}}, extra...)

	return &Checker{
		deps:   deps,
		logger: logger.With("component", "health"),
		gauge:  gauge,
	}
}

// Liveness answers as long as the process can serve HTTP.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up"}
}

// Readiness is "down" if any dependency fails its ping.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	result := HealthResult{
		Status: "up",
		Checks: make(map[string]CheckResult, len(c.deps)),
	}

	for _, dep := range c.deps {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := dep.Pinger.Ping(checkCtx)
		cancel()

		if err != nil {
			c.logger.WarnContext(ctx, "health check failed", "dependency", dep.Name, "error", err)
			result.Status = "down"
			result.Checks[dep.Name] = CheckResult{Status: "down", Error: err.Error()}
			c.gauge.WithLabelValues(dep.Name).Set(0)
			continue
		}
		result.Checks[dep.Name] = CheckResult{Status: "up"}
		c.gauge.WithLabelValues(dep.Name).Set(1)
	}

	return result
}
