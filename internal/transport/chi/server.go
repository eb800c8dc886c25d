// Package chi serves the search BFF over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/novelsearch/internal/logger"
	"github.com/kailas-cloud/novelsearch/internal/metrics"
	contestuc "github.com/kailas-cloud/novelsearch/internal/usecase/contest"
	healthuc "github.com/kailas-cloud/novelsearch/internal/usecase/health"
	profileuc "github.com/kailas-cloud/novelsearch/internal/usecase/profile"
	searchuc "github.com/kailas-cloud/novelsearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/novelsearch/internal/usecase/session"
)

// SessionHeader carries the search session ID in both directions.
const SessionHeader = "X-Session-ID"

const maxCommandBytes = 64 << 10

// Server holds the HTTP handlers of the search BFF.
type Server struct {
	sessions      *sessionuc.Service
	profiles      *profileuc.Service
	contests      *contestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Service,
	profiles *profileuc.Service,
	contests *contestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		sessions:      sessions,
		profiles:      profiles,
		contests:      contests,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	CORSOrigins []string
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(CORS(opts.CORSOrigins))
	r.Use(CredentialsMiddleware())
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/healthz", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.Search)

		r.Route("/sessions/{session}", func(r chi.Router) {
			r.Use(sessionLogContext)
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/load-more", s.LoadMore)
			r.Post("/commands", s.Dispatch)
			r.Get("/recent", s.RecentSearches)
			r.Post("/follow/{user}", s.Follow)
			r.Delete("/follow/{user}", s.Unfollow)
		})

		r.Get("/contests/by-tag/{tag}", s.ContestsByTag)
		r.Get("/users/{user}/stats", s.UserStats)
		r.Get("/users/{user}/activity", s.UserActivity)
	})
	return r
}

// Search handles GET /api/v1/search. The URL query is the search query; the
// session is taken from X-Session-ID and created when missing or expired.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := query.FromValues(r.URL.Query())

	id, ctrl, created := s.sessions.Resolve(r.Header.Get(SessionHeader))
	if created {
		s.logger.Debug("search session created", zap.String("session_id", id))
	}
	w.Header().Set(SessionHeader, id)

	ctx := logpkg.WithFields(r.Context(), zap.String("session_id", id))
	writeJSON(w, http.StatusOK, ctrl.Apply(ctx, q))
}

// GetSession handles GET /api/v1/sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ctrl.View())
}

// DeleteSession handles DELETE /api/v1/sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadMore handles POST /api/v1/sessions/{session}/load-more.
func (s *Server) LoadMore(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ctrl.LoadMore(r.Context()))
}

// CommandResponse is the body returned for a dispatched command.
type CommandResponse struct {
	Navigation searchuc.Navigation `json:"navigation"`
	View       searchuc.View       `json:"view"`
}

// Dispatch handles POST /api/v1/sessions/{session}/commands.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	var cmd searchuc.Command
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBytes)).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	nav, view, err := ctrl.Dispatch(r.Context(), cmd)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CommandResponse{Navigation: nav, View: view})
}

// RecentSearches handles GET /api/v1/sessions/{session}/recent.
func (s *Server) RecentSearches(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"recent": ctrl.Recent()})
}

// FollowResponse reports the follow state after a toggle.
type FollowResponse struct {
	UserID    string `json:"userId"`
	Following bool   `json:"following"`
}

// Follow handles POST /api/v1/sessions/{session}/follow/{user}.
func (s *Server) Follow(w http.ResponseWriter, r *http.Request) {
	s.toggleFollow(w, r, true)
}

// Unfollow handles DELETE /api/v1/sessions/{session}/follow/{user}.
func (s *Server) Unfollow(w http.ResponseWriter, r *http.Request) {
	s.toggleFollow(w, r, false)
}

func (s *Server) toggleFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "user")
	var err error
	if follow {
		err = ctrl.Follow(r.Context(), userID)
	} else {
		err = ctrl.Unfollow(r.Context(), userID)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FollowResponse{UserID: userID, Following: follow})
}

// ContestsByTag handles GET /api/v1/contests/by-tag/{tag}.
func (s *Server) ContestsByTag(w http.ResponseWriter, r *http.Request) {
	body, err := s.contests.ByTag(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// UserStats handles GET /api/v1/users/{user}/stats.
func (s *Server) UserStats(w http.ResponseWriter, r *http.Request) {
	body, err := s.profiles.Stats(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// UserActivity handles GET /api/v1/users/{user}/activity.
func (s *Server) UserActivity(w http.ResponseWriter, r *http.Request) {
	body, err := s.profiles.Activity(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: report.Status, Checks: report.Checks})
}

// controller looks up the session named in the path and writes a 404 when
// it does not exist.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*searchuc.Controller, bool) {
	id := chi.URLParam(r, "session")
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.handleDomainError(w, r, err)
			return nil, false
		}
		writeError(w, http.StatusNotFound, CodeSessionNotFound, domain.ErrSessionNotFound.Error())
		return nil, false
	}
	w.Header().Set(SessionHeader, id)
	return ctrl, true
}
