package novelsearch

import "github.com/kailas-cloud/novelsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrUpstream        = domain.ErrUpstream
	ErrUnauthorized    = domain.ErrUnauthorized
	ErrSessionNotFound = domain.ErrSessionNotFound
)
