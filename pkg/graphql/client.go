// ABOUTME: GraphQL HTTP client with throttling and retry handling
// ABOUTME: Implements Do, DoPaginated and the transient-error taxonomy
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cerebra-health/cerebra-go/internal/version"
	"github.com/cerebra-health/cerebra-go/pkg/auth"
)

const (
	// The platform allows 580 requests per 300 seconds per session.
	// The default limiter spaces requests to stay under that.
	defaultLimitRequests = 580
	defaultLimitWindow   = 300 * time.Second

	defaultMaxRetries   = 5
	defaultRetryBackoff = 30 * time.Second
	defaultPageSize     = 250
)

// Config configures a Client.
type Config struct {
	// Endpoint is the GraphQL URL, e.g. https://api.cerebrahealth.com/api/graphql.
	Endpoint string

	// Auth supplies credentials for each request. May be nil for
	// anonymous endpoints.
	Auth auth.Provider

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	// Limiter throttles outgoing requests. Defaults to the platform
	// rate of 580 requests per 300 seconds.
	Limiter *rate.Limiter

	// MaxRetries bounds how many times a transient failure is
	// retried. 0 means the default of 5; -1 disables retries.
	MaxRetries int

	// RetryBackoff is the base delay before a retry; the n-th retry
	// waits RetryBackoff * (n+1)^2. Defaults to 30s.
	RetryBackoff time.Duration

	// Logger receives query diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client executes GraphQL operations against a single endpoint.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// New creates a client, filling config defaults.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Every(defaultLimitWindow/defaultLimitRequests), 1)
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		cfg:     cfg,
		http:    cfg.HTTPClient,
		limiter: cfg.Limiter,
		log:     cfg.Logger,
	}
}

// Do executes the request and unmarshals the response data into out.
// Transient failures (502/503/504, network timeouts, expired sessions)
// are retried; an expired session triggers a fresh login first.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	for retry := 0; ; retry++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.post(ctx, req, out)
		if err == nil {
			return nil
		}
		if retry >= c.cfg.MaxRetries || !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		if isNotAuthenticated(err) {
			c.log.Info("session expired, logging in again")
			if c.cfg.Auth != nil {
				c.cfg.Auth.Invalidate()
			}
		} else {
			delay := c.cfg.RetryBackoff * time.Duration((retry+1)*(retry+1))
			c.log.Warn("query failed, backing off",
				zap.Int("retry", retry+1),
				zap.Duration("delay", delay),
				zap.Error(err))
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
		}
		if c.cfg.Auth != nil {
			if err := c.cfg.Auth.Login(ctx); err != nil {
				return err
			}
		}
	}
}

// DoPaginated runs req repeatedly with $limit and $offset variables,
// passing each page's data to fn. fn returns how many items the page
// held; pagination stops at the first empty page. pageSize defaults
// to 250.
func (c *Client) DoPaginated(ctx context.Context, req Request, pageSize int, fn func(json.RawMessage) (int, error)) error {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	for offset := 0; ; offset += pageSize {
		vars := make(map[string]any, len(req.Variables)+2)
		for k, v := range req.Variables {
			vars[k] = v
		}
		vars["limit"] = pageSize
		vars["offset"] = offset

		var data json.RawMessage
		page := Request{Query: req.Query, Variables: vars, PartyID: req.PartyID}
		if err := c.Do(ctx, page, &data); err != nil {
			return err
		}

		n, err := fn(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// post performs one HTTP round trip.
func (c *Client) post(ctx context.Context, req Request, out any) error {
	body := struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{req.Query, req.Variables}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.cfg.Endpoint
	if req.PartyID != "" {
		endpoint += "?partyId=" + url.QueryEscape(req.PartyID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if c.cfg.Auth != nil {
		if err := c.cfg.Auth.Apply(httpReq); err != nil {
			return fmt.Errorf("apply credentials: %w", err)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []*QueryError   `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors[0]
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("unmarshal data: %w", err)
		}
	}
	return nil
}

// retryable reports whether the error is worth another attempt:
// gateway errors, network timeouts, or an expired session.
func retryable(err error) bool {
	var status *StatusError
	if errors.As(err, &status) {
		switch status.Code {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if isNotAuthenticated(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNotAuthenticated(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Extensions.Code == CodeNotAuthenticated
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
