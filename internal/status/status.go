// Package status provides a thread-safe status tracker for the thermal-sensor daemon.
// It is read by the HTTP handlers and by MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/thermal-sensor/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HighX10     logic.TempX10
	LowX10      logic.TempX10
	MaxErrors   int
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	ADCPath     string
	AlarmPin    int // -1 when disabled
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Reading       logic.Reading
	Sampled       bool // at least one successful read
	Faulted       bool
	Samples       int
	ReadErrors    int
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.StateSafe,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update copies the monitor's observable state. Called from runLoop on every tick.
func (t *Tracker) Update(m *logic.Monitor) {
	t.mu.Lock()
	t.snap.State = m.CurrentState()
	t.snap.Reading = m.LastReading()
	t.snap.Samples = m.Samples()
	t.snap.Sampled = t.snap.Samples > 0
	t.snap.Faulted = m.IsFaulted()
	t.snap.Counts = m.EventCountsSnapshot()
	t.mu.Unlock()
}

// AddReadError counts a failed ADC read.
func (t *Tracker) AddReadError() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
