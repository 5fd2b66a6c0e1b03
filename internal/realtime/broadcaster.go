package realtime

import "log/slog"

// Broadcaster delivers messages to one connection, to a room, or to every
// connection. Delivery is best-effort and at-most-once: membership is
// snapshotted at call time, individual send failures never abort the batch,
// and a failed connection is dropped from the registry instead of retried.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, logger: logger}
}

// SendTo attempts delivery to a single connection. On failure the connection
// is treated as dead: it is unregistered and closed, and the failure is not
// propagated to the caller.
func (b *Broadcaster) SendTo(c Conn, message []byte) {
	if err := c.Send(message); err != nil {
		b.logger.Warn("send failed, dropping connection", "conn_id", c.ID(), "error", err)
		b.registry.Unregister(c)
		_ = c.Close()
	}
}

// BroadcastAll delivers to every connection registered at call time.
// Connections that join after the snapshot do not receive the message.
func (b *Broadcaster) BroadcastAll(message []byte) {
	for _, c := range b.registry.AllConnections() {
		b.SendTo(c, message)
	}
}

// BroadcastRoom delivers to every member of the room at call time.
func (b *Broadcaster) BroadcastRoom(room string, message []byte) {
	for _, c := range b.registry.MembersOf(room) {
		b.SendTo(c, message)
	}
}
