// ABOUTME: Package documentation for the GraphQL layer
// ABOUTME: Describes queries, pagination, throttling and subscriptions
/*
Package graphql talks to the platform's GraphQL endpoint.

Client.Do executes a single operation with structured variables,
throttled to the platform's rate limit. Gateway errors, network
timeouts and expired sessions are retried with a quadratic backoff;
an expired session triggers a fresh login through the configured
auth.Provider before the retry.

Client.DoPaginated repeats an operation with $limit/$offset variables
until the server returns an empty page.

SubscriptionClient multiplexes GraphQL subscriptions over a single
WebSocket connection using the graphql-transport-ws subprotocol.
*/
package graphql
