// ABOUTME: SDK facade client and its configuration
// ABOUTME: Wires auth, the GraphQL layer and the chunk pipeline together
package cerebra

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cerebra-health/cerebra-go/internal/transport"
	"github.com/cerebra-health/cerebra-go/pkg/auth"
	"github.com/cerebra-health/cerebra-go/pkg/graphql"
	"github.com/cerebra-health/cerebra-go/pkg/signal"
)

// DefaultAPIURL is the production platform endpoint.
const DefaultAPIURL = "https://api.cerebrahealth.com/api"

const defaultDownloadConcurrency = 5

// Config configures a Client. The zero value plus an auth provider is
// a working production setup.
type Config struct {
	// APIURL is the platform base URL. Defaults to DefaultAPIURL.
	APIURL string

	// Auth supplies credentials. Usually an auth.SessionAuth built
	// from email and password, or an auth.APIKeyAuth.
	Auth auth.Provider

	// PartyID scopes every query to another party, e.g. an
	// organisation the account manages. Empty means the account's
	// own data.
	PartyID string

	// HTTPClient overrides the client used for GraphQL queries.
	HTTPClient *http.Client

	// Limiter overrides the query rate limit.
	Limiter *rate.Limiter

	// MaxRetries bounds query retries. 0 means the default; -1
	// disables retries.
	MaxRetries int

	// DownloadConcurrency is how many data chunks are fetched in
	// parallel. Defaults to 5.
	DownloadConcurrency int

	// Transport tunes the chunk download client. Chunk URLs are
	// pre-signed, so this client carries no credentials.
	Transport transport.Options

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client is the SDK entry point.
type Client struct {
	cfg     Config
	gql     *graphql.Client
	fetcher *signal.Fetcher
	log     *zap.Logger
}

// New creates a client, filling config defaults. Call Connect before
// issuing queries with a session-based provider.
func New(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.DownloadConcurrency < 1 {
		cfg.DownloadConcurrency = defaultDownloadConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	gql := graphql.New(graphql.Config{
		Endpoint:   cfg.APIURL + "/graphql",
		Auth:       cfg.Auth,
		HTTPClient: cfg.HTTPClient,
		Limiter:    cfg.Limiter,
		MaxRetries: cfg.MaxRetries,
		Logger:     cfg.Logger,
	})
	fetcher := signal.NewFetcher(signal.FetcherConfig{
		Transport: transport.NewClient(cfg.Transport),
		Logger:    cfg.Logger,
	})

	return &Client{
		cfg:     cfg,
		gql:     gql,
		fetcher: fetcher,
		log:     cfg.Logger,
	}
}

// Connect establishes the session. With a session provider this logs
// in (or verifies a cached session); with static credentials it is a
// no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.cfg.Auth == nil {
		return nil
	}
	return c.cfg.Auth.Login(ctx)
}

// request builds a GraphQL request carrying the client's party scope.
func (c *Client) request(query string, vars map[string]any) graphql.Request {
	return graphql.Request{Query: query, Variables: vars, PartyID: c.cfg.PartyID}
}
