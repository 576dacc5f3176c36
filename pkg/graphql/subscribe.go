// ABOUTME: GraphQL subscription client over WebSocket
// ABOUTME: Speaks the graphql-transport-ws subprotocol
package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cerebra-health/cerebra-go/pkg/auth"
)

// graphql-transport-ws message types.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgPing           = "ping"
	msgPong           = "pong"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
)

const ackTimeout = 10 * time.Second

// wsMessage is the graphql-transport-ws frame.
type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is one subscription delivery: either a data payload or a
// terminal error. The event channel closes after a terminal error or
// when the server completes the subscription.
type Event struct {
	Data json.RawMessage
	Err  error
}

// SubscriptionConfig configures a SubscriptionClient.
type SubscriptionConfig struct {
	// Endpoint is the GraphQL URL; the ws:// or wss:// form is
	// derived from it.
	Endpoint string

	// Auth supplies credentials for the WebSocket handshake.
	Auth auth.Provider

	// Dialer overrides the default WebSocket dialer.
	Dialer *websocket.Dialer

	// Logger receives connection diagnostics. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

// SubscriptionClient holds one WebSocket connection and multiplexes
// any number of subscriptions over it.
type SubscriptionClient struct {
	cfg    SubscriptionConfig
	dialer *websocket.Dialer
	log    *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	subs   map[string]chan Event
	closed bool
}

// NewSubscriptionClient creates a subscription client. Call Connect
// before Subscribe.
func NewSubscriptionClient(cfg SubscriptionConfig) *SubscriptionClient {
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 45 * time.Second,
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SubscriptionClient{
		cfg:    cfg,
		dialer: cfg.Dialer,
		log:    cfg.Logger,
		subs:   make(map[string]chan Event),
	}
}

// Connect dials the endpoint and performs the connection_init
// handshake, then starts routing incoming messages.
func (c *SubscriptionClient) Connect(ctx context.Context) error {
	wsURL, err := websocketURL(c.cfg.Endpoint)
	if err != nil {
		return err
	}

	header := http.Header{}
	if c.cfg.Auth != nil {
		// Collect credential headers via a throwaway request.
		req, err := http.NewRequest(http.MethodGet, c.cfg.Endpoint, nil)
		if err != nil {
			return err
		}
		if err := c.cfg.Auth.Apply(req); err != nil {
			return fmt.Errorf("apply credentials: %w", err)
		}
		header = req.Header
	}

	dialer := *c.dialer
	if len(dialer.Subprotocols) == 0 {
		dialer.Subprotocols = []string{"graphql-transport-ws"}
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}

	if err := conn.WriteJSON(wsMessage{Type: msgConnectionInit}); err != nil {
		conn.Close()
		return fmt.Errorf("send connection_init: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(ackTimeout))
	var ack wsMessage
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return fmt.Errorf("read connection_ack: %w", err)
	}
	conn.SetReadDeadline(time.Time{})
	if ack.Type != msgConnectionAck {
		conn.Close()
		return fmt.Errorf("expected connection_ack, got %q", ack.Type)
	}

	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// Subscribe starts the subscription described by req. Events arrive on
// the returned channel until the server completes the subscription,
// an error terminates it, or cancel is called. The caller must drain
// the channel.
func (c *SubscriptionClient) Subscribe(req Request) (<-chan Event, func(), error) {
	payload, err := json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{req.Query, req.Variables})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal subscription: %w", err)
	}

	id := uuid.New().String()
	events := make(chan Event, 16)

	c.mu.Lock()
	if c.conn == nil || c.closed {
		c.mu.Unlock()
		return nil, nil, fmt.Errorf("not connected")
	}
	c.subs[id] = events
	err = c.conn.WriteJSON(wsMessage{ID: id, Type: msgSubscribe, Payload: payload})
	c.mu.Unlock()
	if err != nil {
		c.drop(id)
		return nil, nil, fmt.Errorf("send subscribe: %w", err)
	}

	cancel := func() {
		c.mu.Lock()
		if c.conn != nil && !c.closed {
			c.conn.WriteJSON(wsMessage{ID: id, Type: msgComplete})
		}
		c.mu.Unlock()
		c.drop(id)
	}
	return events, cancel, nil
}

// Close tears down the connection and closes every open subscription
// channel.
func (c *SubscriptionClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.conn == nil {
		c.closed = true
		return nil
	}
	c.closed = true
	err := c.conn.Close()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	return err
}

// readLoop routes incoming frames to their subscription channels. It
// exits when the connection drops, reporting the failure to every
// open subscription.
func (c *SubscriptionClient) readLoop(conn *websocket.Conn) {
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			c.failAll(err)
			return
		}

		switch msg.Type {
		case msgNext:
			var result struct {
				Data   json.RawMessage `json:"data"`
				Errors []*QueryError   `json:"errors"`
			}
			ev := Event{}
			if err := json.Unmarshal(msg.Payload, &result); err != nil {
				ev.Err = fmt.Errorf("decode event: %w", err)
			} else if len(result.Errors) > 0 {
				ev.Err = result.Errors[0]
			} else {
				ev.Data = result.Data
			}
			c.deliver(msg.ID, ev)

		case msgError:
			var queryErrs []*QueryError
			ev := Event{Err: fmt.Errorf("subscription failed")}
			if err := json.Unmarshal(msg.Payload, &queryErrs); err == nil && len(queryErrs) > 0 {
				ev.Err = queryErrs[0]
			}
			c.deliver(msg.ID, ev)
			c.drop(msg.ID)

		case msgComplete:
			c.drop(msg.ID)

		case msgPing:
			c.mu.Lock()
			if !c.closed {
				conn.WriteJSON(wsMessage{Type: msgPong})
			}
			c.mu.Unlock()

		case msgPong:
			// Reply to our own pings; nothing to do.

		default:
			c.log.Warn("unknown subscription message", zap.String("type", msg.Type))
		}
	}
}

// deliver sends the event to the subscription's channel, dropping it
// when the subscriber has gone away or stopped draining. The send is
// non-blocking, so holding the lock keeps it ordered against drop and
// Close without stalling the read loop.
func (c *SubscriptionClient) deliver(id string, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.subs[id]
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
		c.log.Warn("subscription channel full, dropping event", zap.String("id", id))
	}
}

// drop unregisters a subscription and closes its channel.
func (c *SubscriptionClient) drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.subs[id]; ok {
		delete(c.subs, id)
		close(ch)
	}
}

// failAll reports a connection-level failure to every subscription and
// closes them.
func (c *SubscriptionClient) failAll(err error) {
	c.mu.Lock()
	if c.closed {
		// Close already cleaned up; the read error is expected.
		c.mu.Unlock()
		return
	}
	subs := c.subs
	c.subs = make(map[string]chan Event)
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- Event{Err: err}:
		default:
		}
		close(ch)
	}
}

// websocketURL rewrites an http(s) endpoint to its ws(s) form.
func websocketURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	return u.String(), nil
}
