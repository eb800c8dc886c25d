package api

import (
	"context"
	"net/http"
)

// Credentials are the viewer's credentials, forwarded unchanged to
// credentialed platform endpoints.
type Credentials struct {
	Cookie        string
	Authorization string
}

// IsEmpty reports whether no credential is present.
func (c Credentials) IsEmpty() bool { return c.Cookie == "" && c.Authorization == "" }

type credentialsKey struct{}

// ContextWithCredentials stores credentials in the context.
func ContextWithCredentials(ctx context.Context, c Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, c)
}

// CredentialsFromContext extracts credentials from the context.
func CredentialsFromContext(ctx context.Context) Credentials {
	c, _ := ctx.Value(credentialsKey{}).(Credentials)
	return c
}

// CredentialsFromRequest reads the Cookie and Authorization headers.
func CredentialsFromRequest(r *http.Request) Credentials {
	return Credentials{
		Cookie:        r.Header.Get("Cookie"),
		Authorization: r.Header.Get("Authorization"),
	}
}

func (c Credentials) apply(h http.Header) {
	if c.Cookie != "" {
		h.Set("Cookie", c.Cookie)
	}
	if c.Authorization != "" {
		h.Set("Authorization", c.Authorization)
	}
}
