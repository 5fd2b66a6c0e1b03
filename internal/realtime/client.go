package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before the pong deadline expires
	MaxMessageSize = 512                 // maximum control frame size allowed from peer

	sendBufSize = 32 // per-client outbound buffer depth
)

var (
	ErrClientClosed   = errors.New("client connection closed")
	ErrSendBufferFull = errors.New("client send buffer full")
)

// Client is one live WebSocket session. Its read pump turns inbound control
// frames into registry mutations; its write pump drains the send buffer onto
// the wire. Both run in their own goroutine.
type Client struct {
	id       string
	conn     *websocket.Conn
	send     chan []byte // buffered channel for outbound messages
	registry *Registry
	logger   *slog.Logger

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	onClose   func() // releases the connection-limiter slot
}

// NewClient wraps an upgraded connection. onClose may be nil.
func NewClient(id string, conn *websocket.Conn, registry *Registry, logger *slog.Logger, onClose func()) *Client {
	return &Client{
		id:       id,
		conn:     conn,
		send:     make(chan []byte, sendBufSize),
		registry: registry,
		logger:   logger,
		done:     make(chan struct{}),
		onClose:  onClose,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send enqueues one outbound message. It never blocks: a full buffer or a
// closed session reports an error so the broadcaster can drop the client.
func (c *Client) Send(message []byte) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	select {
	case c.send <- message:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close tears the session down exactly once: the client leaves the registry,
// both pumps stop, and the limiter slot is released.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.registry.Unregister(c)
		close(c.done)
		c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
		c.logger.Debug("client closed", "conn_id", c.id)
	})
	return nil
}

// ReadPump blocks reading control frames until the transport closes, then
// cleans up. Must run in its own goroutine; exactly one per client.
func (c *Client) ReadPump() {
	defer c.Close()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", "conn_id", c.id, "error", err)
			}
			return
		}
		c.handleControl(data)
	}
}

// WritePump drains the send buffer and forwards frames to the connection,
// interleaving keepalive pings. Runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return
		}
	}
}

// handleControl applies one inbound control frame to the registry and queues
// the acknowledgement. A garbage frame gets a structured error reply, never
// a dropped connection.
func (c *Client) handleControl(data []byte) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.reply(errorFrame{Type: "error", Message: "invalid control frame"})
		return
	}

	switch Action(msg.Action) {
	case ActionSubscribe:
		// Missing room is silently ignored; this is intentionally lenient.
		if msg.Room == "" {
			return
		}
		c.registry.JoinRoom(c, msg.Room)
		c.reply(subscriptionFrame{Type: "subscription", Status: "subscribed", Room: msg.Room})

	case ActionUnsubscribe:
		// Acknowledge whenever the room is known, member or not: the end
		// state is the same either way.
		if msg.Room == "" || !c.registry.HasRoom(msg.Room) {
			return
		}
		c.registry.LeaveRoom(c, msg.Room)
		c.reply(subscriptionFrame{Type: "subscription", Status: "unsubscribed", Room: msg.Room})

	case ActionPing:
		c.reply(pongFrame{Type: "pong"})

	default:
		c.reply(errorFrame{Type: "error", Message: "Unknown action: " + msg.Action})
	}
}

func (c *Client) reply(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("failed to marshal reply frame", "conn_id", c.id, "error", err)
		return
	}
	// Best-effort: if the buffer is full the pump is stuck and the
	// keepalive deadline will reap the connection shortly.
	if err := c.Send(data); err != nil {
		c.logger.Warn("failed to queue reply frame", "conn_id", c.id, "error", err)
	}
}
