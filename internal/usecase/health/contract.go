package health

import "context"

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks platform API availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
