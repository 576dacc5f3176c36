// ABOUTME: Authentication package for platform credentials
// ABOUTME: Provides session, API key and static cookie providers
// Package auth supplies credential providers for the Cerebra platform.
//
// SessionAuth performs an email/password login and caches the verified
// session cookie under ~/.cerebra so later runs skip the login.
// APIKeyAuth and StaticCookieAuth attach fixed credentials.
//
// The query layer calls Invalidate and Login when the platform reports
// an expired session, so providers must be safe for concurrent use.
package auth
