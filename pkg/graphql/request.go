// ABOUTME: Request and error types for the GraphQL layer
// ABOUTME: Defines Request, QueryError and StatusError
package graphql

import "fmt"

// CodeNotAuthenticated is the error code the platform returns when the
// session is missing or expired.
const CodeNotAuthenticated = "NOT_AUTHENTICATED"

// Request is a single GraphQL operation. Variables are sent as a
// structured JSON object, never interpolated into the query text.
type Request struct {
	// Query is the GraphQL document.
	Query string

	// Variables are the operation variables, if any.
	Variables map[string]any

	// PartyID scopes the request to another party (e.g. an
	// organisation the account manages). Sent as a query parameter.
	PartyID string
}

// QueryError is an error reported by the GraphQL endpoint inside a 200
// response.
type QueryError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

func (e *QueryError) Error() string {
	if e.Extensions.Code != "" {
		return fmt.Sprintf("graphql: %s (%s)", e.Message, e.Extensions.Code)
	}
	return "graphql: " + e.Message
}

// StatusError is a non-200 HTTP response from the GraphQL endpoint.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "graphql: server returned " + e.Status
}
