package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	cderr "github.com/pvogel/castdeck/internal/errors"
)

const handshakeTimeout = 10 * time.Second

// Client is a Home Assistant WebSocket API client. It performs the auth
// handshake on Connect and correlates command results to callers by
// message id. One reader goroutine owns the connection's receive side;
// writes are serialized with a mutex.
type Client struct {
	url    string
	token  string
	logger *log.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[int64]chan callResult
	nextID    int64

	done      chan struct{}
	closeOnce sync.Once
}

type callResult struct {
	result json.RawMessage
	err    error
}

// envelope is the common shape of incoming WebSocket messages.
type envelope struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *CommandError   `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// CommandError is the error payload of a failed command result.
type CommandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("home assistant error %s: %s", e.Code, e.Message)
}

// New creates a client for the given WebSocket endpoint, e.g.
// ws://homeassistant.local:8123/api/websocket.
func New(url, token string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		url:     url,
		token:   token,
		logger:  logger,
		pending: make(map[int64]chan callResult),
		done:    make(chan struct{}),
	}
}

// Connect dials the endpoint and runs the auth handshake:
// auth_required -> auth -> auth_ok. On success the reader loop starts.
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Debug("connecting", "url", c.url)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	var hello envelope
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to read auth challenge: %w", err)
	}
	if hello.Type != "auth_required" {
		_ = conn.Close()
		return fmt.Errorf("unexpected handshake message %q", hello.Type)
	}

	auth := map[string]string{"type": "auth", "access_token": c.token}
	if err := conn.WriteJSON(auth); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to send auth: %w", err)
	}

	var reply envelope
	if err := conn.ReadJSON(&reply); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to read auth reply: %w", err)
	}
	if reply.Type != "auth_ok" {
		_ = conn.Close()
		if reply.Message != "" {
			return fmt.Errorf("%w: %s", cderr.ErrAuthFailed, reply.Message)
		}
		return cderr.ErrAuthFailed
	}

	c.conn = conn
	c.logger.Debug("authenticated", "url", c.url)

	go c.readLoop()
	return nil
}

// Close shuts the connection down and fails all in-flight calls.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			err = c.conn.Close()
		}
		c.failPending(cderr.ErrConnectionClosed)
	})
	return err
}

// Query implements Caller.
func (c *Client) Query(ctx context.Context, req any, result any) error {
	raw, err := c.call(ctx, req)
	if err != nil {
		return err
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}
	return nil
}

// CallService implements Caller.
func (c *Client) CallService(ctx context.Context, domain, service string, data any) error {
	req := map[string]any{
		"type":         "call_service",
		"domain":       domain,
		"service":      service,
		"service_data": data,
	}
	_, err := c.call(ctx, req)
	return err
}

// call sends one command and waits for its correlated result envelope.
func (c *Client) call(ctx context.Context, req any) (json.RawMessage, error) {
	if c.conn == nil {
		return nil, cderr.ErrNotConnected
	}

	// Inject the message id by round-tripping through a generic map, so
	// command payloads stay plain structs.
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	ch := make(chan callResult, 1)
	c.pendingMu.Lock()
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.pendingMu.Unlock()
	msg["id"] = id

	c.logger.Debug("sending command", "id", id, "type", msg["type"])

	c.writeMu.Lock()
	err = c.conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		c.dropPending(id)
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	select {
	case <-ctx.Done():
		c.dropPending(id)
		return nil, ctx.Err()
	case <-c.done:
		return nil, cderr.ErrConnectionClosed
	case res := <-ch:
		return res.result, res.err
	}
}

// readLoop dispatches result envelopes to waiting callers until the
// connection dies.
func (c *Client) readLoop() {
	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Debug("read loop ended", "err", err)
				c.failPending(fmt.Errorf("%w: %v", cderr.ErrConnectionClosed, err))
			}
			return
		}

		if env.Type != "result" {
			// Event subscriptions are not used; ignore anything else.
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[env.ID]
		delete(c.pending, env.ID)
		c.pendingMu.Unlock()
		if !ok {
			continue
		}

		if env.Success != nil && !*env.Success {
			err := error(env.Error)
			if env.Error == nil {
				err = fmt.Errorf("command %d failed", env.ID)
			}
			ch <- callResult{err: err}
			continue
		}
		ch <- callResult{result: env.Result}
	}
}

func (c *Client) dropPending(id int64) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	for id, ch := range c.pending {
		ch <- callResult{err: err}
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
}

// Ensure Client implements Caller
var _ Caller = (*Client)(nil)
