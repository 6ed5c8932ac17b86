package health

import "context"

// Checker checks availability of one external capability.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
