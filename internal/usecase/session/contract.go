package session

import "github.com/kailas-cloud/novelsearch/internal/usecase/search"

// ControllerFactory creates the controller of a new session.
type ControllerFactory func() *search.Controller

// Observer receives session lifecycle counts.
type Observer interface {
	SessionsActive(n int)
	SessionsEvicted(n int)
}
