// Package logic contains the pure signal-processing pipeline for the thermal sensor.
// This package has NO external dependencies (no ADC, GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// RawSample is a 12-bit ADC reading. Values above ADCMax are clamped, never rejected.
type RawSample uint16

// TempX10 is a temperature in tenths of a degree (1000 = 100.0°C).
type TempX10 int16

const (
	ADCMax     RawSample = 4095
	TempMinX10 TempX10   = -400 // -40.0°C
	TempMaxX10 TempX10   = 1250 // +125.0°C
)

// State is the safety classification of the smoothed temperature.
type State string

const (
	StateSafe   State = "SAFE"
	StateUnsafe State = "UNSAFE"
)

// Bit returns the 1-bit state output: 0 for SAFE, 1 for UNSAFE.
func (s State) Bit() int {
	if s == StateUnsafe {
		return 1
	}
	return 0
}

// EventType represents a reported state transition.
type EventType string

const (
	EventUnsafe EventType = "UNSAFE"
	EventSafe   EventType = "SAFE"
)

// Reason explains why a transition was reported.
type Reason string

const (
	ReasonThreshold       Reason = "threshold"
	ReasonSensorFault     Reason = "sensor_fault"
	ReasonSensorRecovered Reason = "sensor_recovered"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	TempX10   TempX10 // smoothed temperature at the transition (last known on fault)
	Reason    Reason
}

// Input represents a single raw sample taken at a point in time.
type Input struct {
	Raw  RawSample
	Time time.Time
}

// Reading is the result of pushing one Input through the pipeline.
type Reading struct {
	Time        time.Time
	Raw         RawSample
	TempX10     TempX10 // calibrated, unfiltered
	SmoothedX10 TempX10 // valid only when Ready
	Ready       bool
	State       State
}

// EventCounts tracks the number of each reported transition since startup.
type EventCounts struct {
	Unsafe int
	Safe   int
	Faults int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
	Reading   Reading
}

// String formats t in degrees with one decimal, e.g. "-0.5" or "100.0".
func (t TempX10) String() string {
	v := int(t)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}
