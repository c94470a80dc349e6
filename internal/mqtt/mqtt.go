// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/thermal-sensor/internal/logic"
)

// Topic is the MQTT topic for safety state transitions.
const Topic = "sensors/thermal/tsim/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "sensors/thermal/tsim/system"

// ClientID identifies the daemon to the broker.
const ClientID = "thermal-sensor"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a state transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Sensor SensorPayload `json:"sensor"`
}

// SensorPayload contains the transition details.
type SensorPayload struct {
	Timestamp   string `json:"timestamp"`
	Event       string `json:"event"`
	State       string `json:"state"`
	StateBit    int    `json:"state_bit"`
	TempX10     int    `json:"temp_x10"`
	Temperature string `json:"temperature"`
	Reason      string `json:"reason,omitempty"`
}

// FormatPayload creates the JSON payload for a state transition.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Sensor: SensorPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			State:       string(event.State),
			StateBit:    event.State.Bit(),
			TempX10:     int(event.TempX10),
			Temperature: event.TempX10.String(),
			Reason:      string(event.Reason),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (last will, shutdown without tracker) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
