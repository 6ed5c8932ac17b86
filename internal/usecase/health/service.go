package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates web evidence is unavailable but comparisons still run.
	Degraded Status = "degraded"
	// Unhealthy indicates the model provider is unavailable.
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

// Component names reported in Report.Checks.
const (
	ComponentModel  = "model"
	ComponentSearch = "search"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	model  Checker
	search Checker
}

// New creates a Service. search can be nil when web evidence is not configured.
func New(model, search Checker) *Service {
	return &Service{model: model, search: search}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentModel] = result(s.model.HealthCheck(ctx))
	if s.search != nil {
		checks[ComponentSearch] = result(s.search.HealthCheck(ctx))
	}

	status := Healthy
	switch {
	case checks[ComponentModel] == CheckError:
		status = Unhealthy
	case checks[ComponentSearch] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
