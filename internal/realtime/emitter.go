package realtime

import "log/slog"

// RoomBroadcaster is what the emitter needs from the broadcast engine.
type RoomBroadcaster interface {
	BroadcastRoom(room string, message []byte)
	BroadcastAll(message []byte)
}

// fanout is the fixed routing table from event type to target rooms, in
// delivery order. dashboard_update is absent: it goes to every connection
// through a single broadcast-all instead of room routing.
var fanout = map[EventType][]string{
	EventAlertCreated:   {RoomAlerts, RoomDashboard},
	EventAlertUpdated:   {RoomAlerts, RoomDashboard},
	EventFLProgress:     {RoomFLStatus, RoomDashboard},
	EventAttackDetected: {RoomAttackGraph, RoomDashboard},
}

// Emitter wraps domain events into envelopes and routes them to their rooms.
// Every Emit* swallows failures: notification delivery must never fail the
// domain write that triggered it, so errors stop here and get logged.
type Emitter struct {
	broadcaster RoomBroadcaster
	logger      *slog.Logger
}

func NewEmitter(broadcaster RoomBroadcaster, logger *slog.Logger) *Emitter {
	return &Emitter{broadcaster: broadcaster, logger: logger}
}

// EmitAlertCreated announces a newly created alert.
func (e *Emitter) EmitAlertCreated(data interface{}) {
	e.emit(EventAlertCreated, data)
}

// EmitAlertUpdated announces an alert status change.
func (e *Emitter) EmitAlertUpdated(data interface{}) {
	e.emit(EventAlertUpdated, data)
}

// EmitFLProgress announces federated-learning training progress.
func (e *Emitter) EmitFLProgress(data interface{}) {
	e.emit(EventFLProgress, data)
}

// EmitAttackDetected announces a detected attack technique.
func (e *Emitter) EmitAttackDetected(data interface{}) {
	e.emit(EventAttackDetected, data)
}

// EmitDashboardUpdate pushes refreshed dashboard stats to every connection
// regardless of room membership.
func (e *Emitter) EmitDashboardUpdate(data interface{}) {
	msg, err := Envelope{Type: EventDashboardUpdate, Data: data}.ToJSON()
	if err != nil {
		e.logger.Error("failed to encode dashboard_update event", "error", err)
		return
	}
	e.broadcaster.BroadcastAll(msg)
	e.logger.Info("emitted event", "type", EventDashboardUpdate)
}

func (e *Emitter) emit(event EventType, data interface{}) {
	msg, err := Envelope{Type: event, Data: data}.ToJSON()
	if err != nil {
		e.logger.Error("failed to encode event", "type", event, "error", err)
		return
	}
	for _, room := range fanout[event] {
		e.broadcaster.BroadcastRoom(room, msg)
	}
	e.logger.Info("emitted event", "type", event, "rooms", fanout[event])
}
