package chi

import (
	"net/http"

	"github.com/kailas-cloud/novelsearch/internal/transport/api"
)

// exemptPaths are routes that never call credentialed upstream endpoints.
var exemptPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// CredentialsMiddleware forwards the viewer's Cookie and Authorization
// headers to the platform API through the request context. Requests without
// credentials pass through; the platform decides what they may see.
func CredentialsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			creds := api.CredentialsFromRequest(r)
			if creds.IsEmpty() {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(api.ContextWithCredentials(r.Context(), creds)))
		})
	}
}
