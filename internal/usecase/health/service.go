package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	database Pinger
	cache    Pinger
}

// New creates a Service. Either pinger can be nil when the component is not configured.
func New(database, cache Pinger) *Service {
	return &Service{database: database, cache: cache}
}

// Check pings every configured component. A database failure is
// unhealthy, a cache failure is degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.database != nil {
		checks["database"] = ping(ctx, s.database)
		if checks["database"] == CheckError {
			status = Unhealthy
		}
	}

	if s.cache != nil {
		checks["cache"] = ping(ctx, s.cache)
		if checks["cache"] == CheckError && status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
