// Package gpio drives the 1-bit safety output line with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/thermal-sensor/internal/logic"

// Alarm drives an output that is asserted while the sensor is UNSAFE.
type Alarm interface {
	// Set drives the line to match state: asserted for UNSAFE, released for SAFE.
	Set(state logic.State) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultPinAlarm is the BCM pin for the alarm output.
const DefaultPinAlarm = 17

// NopAlarm discards all updates. Used when no alarm pin is configured.
type NopAlarm struct{}

// Set does nothing.
func (NopAlarm) Set(logic.State) error { return nil }

// Close does nothing.
func (NopAlarm) Close() error { return nil }
