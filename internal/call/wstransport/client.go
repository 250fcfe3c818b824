// Package wstransport speaks the voice-agent gateway protocol over a
// websocket connection, decoding inbound events into the call package's
// typed events.
package wstransport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/call"
)

const (
	writeTimeout     = 10 * time.Second
	handshakeTimeout = 15 * time.Second
	eventBuffer      = 64
)

// Client is a call.Transport backed by a websocket connection to the
// voice-agent gateway. It is also its own call.Subscription.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger

	events    chan call.Event
	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// outbound command envelope
type command struct {
	Type           string            `json:"type"`
	Descriptor     string            `json:"descriptor,omitempty"`
	VariableValues map[string]string `json:"variableValues,omitempty"`
}

// Dial connects to the gateway and begins reading events.
func Dial(ctx context.Context, gatewayURL string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, gatewayURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial agent gateway: %w", err)
	}

	c := &Client{
		conn:   conn,
		logger: logger,
		events: make(chan call.Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Start asks the gateway to open a voice session.
func (c *Client) Start(ctx context.Context, opts call.StartOptions) error {
	return c.send(command{
		Type:           "start",
		Descriptor:     opts.Descriptor,
		VariableValues: opts.VariableValues,
	})
}

// Stop asks the gateway to close the voice session.
func (c *Client) Stop(ctx context.Context) error {
	return c.send(command{Type: "stop"})
}

func (c *Client) send(cmd command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s command: %w", cmd.Type, err)
	}
	return nil
}

// Events returns the decoded event feed. The channel closes when the
// connection drops or Close is called.
func (c *Client) Events() <-chan call.Event {
	return c.events
}

// Close releases the subscription and tears down the connection. Safe to
// call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Warn("gateway connection closed", zap.Error(err))
			}
			return
		}

		ev, err := call.DecodeEvent(raw)
		if err != nil {
			// Unknown shapes are logged and dropped, never propagated inward.
			c.logger.Warn("dropping unrecognized gateway event", zap.Error(err))
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}
