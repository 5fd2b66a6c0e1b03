package service

// EventEmitter pushes domain events to connected websocket clients.
// Satisfied by realtime.Emitter; defined here so services can be tested
// with a mock instead of a live connection registry.
type EventEmitter interface {
	EmitAlertCreated(data interface{})
	EmitAlertUpdated(data interface{})
	EmitFLProgress(data interface{})
	EmitAttackDetected(data interface{})
	EmitDashboardUpdate(data interface{})
}
