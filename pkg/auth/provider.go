// ABOUTME: Credential provider interface and static implementations
// ABOUTME: Providers attach credentials to requests and refresh them on demand
package auth

import (
	"context"
	"net/http"
)

// SessionCookie is the name of the platform session cookie.
const SessionCookie = "cerebra.sid"

// Provider supplies and refreshes the credentials attached to API
// requests.
type Provider interface {
	// Apply attaches the current credentials to an outgoing request.
	// A provider with nothing to attach leaves the request untouched.
	Apply(req *http.Request) error

	// Login establishes or re-establishes a session. Providers holding
	// static credentials treat this as a no-op.
	Login(ctx context.Context) error

	// Invalidate discards cached credentials so the next Login starts
	// fresh. Called when the platform rejects a session.
	Invalidate()
}

// APIKeyAuth attaches a static bearer token to every request.
type APIKeyAuth struct {
	Token string
}

// Apply sets the Authorization header.
func (a *APIKeyAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// Login is a no-op; the token is static.
func (a *APIKeyAuth) Login(context.Context) error { return nil }

// Invalidate is a no-op; the token is static.
func (a *APIKeyAuth) Invalidate() {}

// StaticCookieAuth attaches a fixed session cookie. Useful for tools
// that already hold a live session.
type StaticCookieAuth struct {
	// Name of the cookie; defaults to SessionCookie.
	Name string

	// Value of the cookie.
	Value string
}

// Apply adds the session cookie to the request.
func (a *StaticCookieAuth) Apply(req *http.Request) error {
	name := a.Name
	if name == "" {
		name = SessionCookie
	}
	req.AddCookie(&http.Cookie{Name: name, Value: a.Value})
	return nil
}

// Login is a no-op; the cookie is static.
func (a *StaticCookieAuth) Login(context.Context) error { return nil }

// Invalidate is a no-op; the cookie is static.
func (a *StaticCookieAuth) Invalidate() {}
