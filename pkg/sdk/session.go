package novelsearch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kailas-cloud/novelsearch/internal/transport/api"
	searchuc "github.com/kailas-cloud/novelsearch/internal/usecase/search"
)

// Session is one search with its accumulated results. It is safe for
// concurrent use.
type Session struct {
	ctrl  *searchuc.Controller
	creds api.Credentials
	obs   *observer
}

func (s *Session) withCredentials(ctx context.Context) context.Context {
	if s.creds.IsEmpty() {
		return ctx
	}
	return api.ContextWithCredentials(ctx, s.creds)
}

// Search parses a URL query string and applies it.
func (s *Session) Search(ctx context.Context, rawQuery string) View {
	return s.Apply(ctx, ParseQuery(rawQuery))
}

// Apply makes q the current query. Results are refetched only when a
// result-defining field changed. Fetch failures are reported in View.Error.
func (s *Session) Apply(ctx context.Context, q Query) View {
	start := time.Now()
	v := s.ctrl.Apply(s.withCredentials(ctx), q)
	s.obs.observe("search", start, viewErr(v), viewAttrs(v)...)
	return v
}

// Dispatch runs a command against the current query.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (nav Navigation, v View, err error) {
	start := time.Now()
	defer func() { s.obs.observe("dispatch", start, err) }()

	return s.ctrl.Dispatch(s.withCredentials(ctx), cmd)
}

// LoadMore fetches the next chunk of results if there is one.
func (s *Session) LoadMore(ctx context.Context) View {
	start := time.Now()
	v := s.ctrl.LoadMore(s.withCredentials(ctx))
	s.obs.observe("load_more", start, viewErr(v), viewAttrs(v)...)
	return v
}

// Reload discards the accumulated results and fetches them again.
func (s *Session) Reload(ctx context.Context) View {
	start := time.Now()
	v := s.ctrl.Reload(s.withCredentials(ctx))
	s.obs.observe("reload", start, viewErr(v), viewAttrs(v)...)
	return v
}

// Follow follows a listed user.
func (s *Session) Follow(ctx context.Context, userID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("follow", start, err) }()

	return s.ctrl.Follow(s.withCredentials(ctx), userID)
}

// Unfollow unfollows a listed user.
func (s *Session) Unfollow(ctx context.Context, userID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("unfollow", start, err) }()

	return s.ctrl.Unfollow(s.withCredentials(ctx), userID)
}

// View renders the current page without fetching.
func (s *Session) View() View { return s.ctrl.View() }

// Query returns the current query.
func (s *Session) Query() Query { return s.ctrl.Query() }

// Recent returns the most recent distinct search terms, newest first.
func (s *Session) Recent() []string { return s.ctrl.Recent() }

func viewAttrs(v View) []slog.Attr {
	return []slog.Attr{
		slog.String("tab", string(v.Tab)),
		slog.Int("total", v.TotalCounts.All),
		slog.Int("loaded_chunks", v.PageState.LoadedChunks),
	}
}

func viewErr(v View) error {
	if v.Error == "" {
		return nil
	}
	return errors.New(v.Error)
}
