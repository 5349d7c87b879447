// Package bridge connects to the host application over a websocket. The host
// pushes its session state as JSON; the client keeps a local mirror of it so
// reads are cheap, and forwards commands as fire-and-forget JSON messages.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"mystrix-remote/debug"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrNotConnected is returned by commands while the host link is down.
	ErrNotConnected = errors.New("bridge: not connected to host")

	// ErrQueueFull is returned when commands are produced faster than the
	// link can write them.
	ErrQueueFull = errors.New("bridge: command queue full")
)

// Host capabilities announced in the hello message.
const (
	CapHighlight = "highlight"
	CapMessage   = "message"
)

// Config configures a Client.
type Config struct {
	URL string

	// Timeout bounds the handshake and each write.
	Timeout time.Duration

	// Retry is the pause between connection attempts.
	Retry time.Duration

	// QueueSize is the number of commands buffered for the writer.
	QueueSize int
}

// Client is the host link. It implements session.Song together with the
// optional session.Highlighter and session.Messenger.
type Client struct {
	cfg    Config
	logger *slog.Logger
	out    chan []byte

	connected atomic.Bool

	mu      sync.RWMutex
	state   mirror
	caps    map[string]bool
	version uint64
}

// New validates cfg and returns an unconnected client. Call Run to connect.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid bridge url %q: scheme must be ws or wss", cfg.URL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Retry <= 0 {
		cfg.Retry = 500 * time.Millisecond
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		out:    make(chan []byte, cfg.QueueSize),
		caps:   make(map[string]bool),
	}, nil
}

// Connected reports whether the link is up.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Version counts state messages applied to the mirror.
func (c *Client) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Run keeps the link up until ctx is done, reconnecting after failures.
// The mirror keeps the last known state while disconnected.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		conn, err := c.dial(ctx)
		if err == nil {
			attempt = 0
			c.logger.Info("connected to host", "url", c.cfg.URL)
			err = c.serve(ctx, conn)
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("host connection lost; reconnecting...", "error", err)
		} else {
			if ctx.Err() != nil {
				return nil
			}
			attempt++
			if attempt == 1 || attempt%20 == 0 {
				c.logger.Warn("host connection failed; retrying...", "error", err, "attempt", attempt)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.Retry):
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: c.cfg.Timeout}
	conn, _, err := d.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// serve runs the read and write pumps for one connection and returns when
// either fails or ctx is done.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	errc := make(chan error, 2)
	c.dropQueued()
	c.connected.Store(true)

	go func() { errc <- c.readPump(conn) }()
	go func() { errc <- c.writePump(conn, done) }()

	pending := 2
	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
		pending--
	}

	c.connected.Store(false)
	c.mu.Lock()
	c.caps = make(map[string]bool)
	c.mu.Unlock()

	close(done)
	conn.Close()
	for ; pending > 0; pending-- {
		<-errc
	}
	if n := c.dropQueued(); n > 0 {
		c.logger.Warn("dropped commands queued on a lost connection", "count", n)
	}
	return err
}

// dropQueued empties the command queue and reports how many were dropped.
// No command outlives the connection it was queued for.
func (c *Client) dropQueued() int {
	n := 0
	for {
		select {
		case <-c.out:
			n++
		default:
			return n
		}
	}
}

func (c *Client) readPump(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		c.handle(data)
	}
}

func (c *Client) writePump(conn *websocket.Conn, done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		case msg := <-c.out:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

// envelope is every host message. Payload fields are left loosely typed and
// decoded field by field so one bad value does not drop the whole update.
type envelope struct {
	Type string `json:"type"`

	// hello
	Capabilities []string `json:"capabilities,omitempty"`

	// error
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`

	// state
	Tracks        any `json:"tracks,omitempty"`
	Scenes        any `json:"scenes,omitempty"`
	SelectedTrack any `json:"selected_track,omitempty"`
	SelectedScene any `json:"selected_scene,omitempty"`
	Playing       any `json:"playing,omitempty"`
}

func (c *Client) handle(data []byte) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		c.logger.Warn("invalid host message", "error", err)
		return
	}

	switch env.Type {
	case "state":
		m := decodeState(env)
		c.mu.Lock()
		c.state = m
		c.version++
		c.mu.Unlock()
		debug.LogEvery(50, "bridge", "state tracks=%d scenes=%d", len(m.tracks), m.scenes)
	case "hello":
		caps := make(map[string]bool, len(env.Capabilities))
		for _, name := range env.Capabilities {
			caps[name] = true
		}
		c.mu.Lock()
		c.caps = caps
		c.mu.Unlock()
		c.logger.Info("host hello", "capabilities", env.Capabilities)
	case "error":
		c.logger.Warn("host rejected command", "id", env.ID, "error", env.Error)
	default:
		debug.Log("bridge", "ignoring message type %q", env.Type)
	}
}

func (c *Client) hasCap(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.caps[name]
}

// send queues one command. It never blocks.
func (c *Client) send(cmd string, args map[string]any) error {
	if !c.Connected() {
		return fmt.Errorf("%s: %w", cmd, ErrNotConnected)
	}

	id := uuid.NewString()
	msg := map[string]any{"id": id, "cmd": cmd}
	maps.Copy(msg, args)
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", cmd, err)
	}

	select {
	case c.out <- payload:
		debug.Log("bridge", "queued %s id=%s", cmd, id)
		return nil
	default:
		return fmt.Errorf("%s: %w", cmd, ErrQueueFull)
	}
}
