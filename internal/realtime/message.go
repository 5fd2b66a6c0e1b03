package realtime

import (
	"encoding/json"
	"fmt"
)

// Wire protocol definitions: the {type, data} event envelope pushed to
// clients and the small set of inbound control frames clients may send.

// Event types pushed to subscribed clients
type EventType string

const (
	EventAlertCreated    EventType = "alert_created"
	EventAlertUpdated    EventType = "alert_updated"
	EventFLProgress      EventType = "fl_progress"
	EventAttackDetected  EventType = "attack_detected"
	EventDashboardUpdate EventType = "dashboard_update"
)

// Room names clients can subscribe to
const (
	RoomAlerts      = "alerts"
	RoomFLStatus    = "fl-status"
	RoomAttackGraph = "attack-graph"
	RoomDashboard   = "dashboard"
)

// Envelope wraps every outbound event as {type, data}. Immutable once
// constructed; the payload is passed through without validation.
type Envelope struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

func (e Envelope) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// Action is a client control command. Modeled as a closed set so handling
// stays exhaustive; anything else falls through to the error reply.
type Action string

const (
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
	ActionPing        Action = "ping"
)

// ControlMessage is an inbound client frame: {action, room?}.
type ControlMessage struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
}

// Outbound non-event frames

type greetingFrame struct {
	Type    string `json:"type"`   // "connection"
	Status  string `json:"status"` // "connected"
	Message string `json:"message"`
}

type subscriptionFrame struct {
	Type   string `json:"type"`   // "subscription"
	Status string `json:"status"` // "subscribed" | "unsubscribed"
	Room   string `json:"room"`
}

type pongFrame struct {
	Type string `json:"type"` // "pong"
}

type errorFrame struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
