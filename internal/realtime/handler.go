package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// HTTP upgrade handler for WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins; CORS is enforced at the reverse proxy
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Greeting sent to every client right after the upgrade.
const Greeting = "Connected to ICS Threat Detection"

// Handler upgrades HTTP requests to WebSocket sessions and wires each new
// client into the registry.
type Handler struct {
	registry  *Registry
	limiter   *ConnectionLimiter
	handshake *rate.Limiter
	logger    *slog.Logger
}

func NewHandler(registry *Registry, limiter *ConnectionLimiter, handshake *rate.Limiter, logger *slog.Logger) *Handler {
	return &Handler{
		registry:  registry,
		limiter:   limiter,
		handshake: handshake,
		logger:    logger,
	}
}

// Serve handles GET /ws: rate-check, capacity-check, upgrade, greet,
// register, then hand off to the per-client pumps.
func (h *Handler) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.handshake.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many connection attempts"})
			return
		}
		if !h.limiter.Acquire() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "connection limit reached"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// upgrader has already written the error response
			h.limiter.Release()
			return
		}

		client := NewClient(uuid.New().String(), conn, h.registry, h.logger, h.limiter.Release)

		// Queue the greeting before registering: once the client is in
		// the registry a broadcast may land in its send buffer, and the
		// greeting must stay the first frame on the wire.
		greeting, err := encodeGreeting()
		if err == nil {
			_ = client.Send(greeting)
		}
		h.registry.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}

// Status handles GET /api/ws/status: total connection count and per-room
// member counts. Read-only.
func (h *Handler) Status() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.registry.Snapshot())
	}
}

func encodeGreeting() ([]byte, error) {
	frame := greetingFrame{Type: "connection", Status: "connected", Message: Greeting}
	return json.Marshal(frame)
}
