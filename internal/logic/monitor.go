package logic

import "time"

// MonitorConfig configures a single sensor channel.
type MonitorConfig struct {
	HighX10 TempX10
	LowX10  TempX10
	// MaxConsecutiveErrors forces UNSAFE after this many failed reads in a row.
	// Zero disables the fail-safe.
	MaxConsecutiveErrors int
}

// DefaultMonitorConfig trips at 100.0°C and recovers at 95.0°C.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		HighX10:              1000,
		LowX10:               950,
		MaxConsecutiveErrors: 10,
	}
}

// Monitor runs conversion, filtering and classification for one channel and
// reports transitions of the resulting state.
type Monitor struct {
	cfg               MonitorConfig
	filter            Filter
	machine           *StateMachine
	reported          State
	faulted           bool
	consecutiveErrors int
	samples           int
	last              Reading
	startTime         time.Time
	eventCounts       EventCounts
	lastHeartbeat     time.Time
}

// NewMonitor creates a monitor. The startTime is used for calculating uptime in heartbeat events.
func NewMonitor(cfg MonitorConfig, startTime time.Time) *Monitor {
	return &Monitor{
		cfg:           cfg,
		machine:       NewStateMachine(cfg.HighX10, cfg.LowX10),
		reported:      StateSafe,
		startTime:     startTime,
		lastHeartbeat: startTime,
		last:          Reading{State: StateSafe},
	}
}

// Process pushes one raw sample through the pipeline. The state machine is only
// evaluated once the filter produces a smoothed value.
func (m *Monitor) Process(in Input) (Reading, []Event) {
	reason := ReasonThreshold
	if m.faulted {
		reason = ReasonSensorRecovered
	}
	m.consecutiveErrors = 0
	m.faulted = false
	m.samples++

	temp := ADCToTempX10(in.Raw)
	r := Reading{
		Time:    in.Time,
		Raw:     in.Raw,
		TempX10: temp,
	}

	if smoothed, ok := m.filter.Update(temp); ok {
		r.SmoothedX10 = smoothed
		r.Ready = true
		m.machine.Evaluate(smoothed)
	}
	r.State = m.machine.State()
	m.last = r

	reportTemp := r.SmoothedX10
	if !r.Ready {
		reportTemp = temp
	}
	return r, m.report(r.State, in.Time, reportTemp, reason)
}

// ReadFailed records a failed read from the input layer. Once the configured
// number of consecutive failures is reached the reported state is forced UNSAFE.
func (m *Monitor) ReadFailed(t time.Time) []Event {
	m.consecutiveErrors++
	if m.cfg.MaxConsecutiveErrors <= 0 || m.consecutiveErrors < m.cfg.MaxConsecutiveErrors {
		return nil
	}
	if !m.faulted {
		m.faulted = true
		m.eventCounts.Faults++
	}
	return m.report(StateUnsafe, t, m.lastTemp(), ReasonSensorFault)
}

func (m *Monitor) report(s State, t time.Time, temp TempX10, reason Reason) []Event {
	if s == m.reported {
		return nil
	}
	m.reported = s

	e := Event{
		Timestamp: t,
		State:     s,
		TempX10:   temp,
		Reason:    reason,
	}
	if s == StateUnsafe {
		e.Type = EventUnsafe
		m.eventCounts.Unsafe++
	} else {
		e.Type = EventSafe
		m.eventCounts.Safe++
	}
	return []Event{e}
}

func (m *Monitor) lastTemp() TempX10 {
	if m.last.Ready {
		return m.last.SmoothedX10
	}
	return m.last.TempX10
}

// IsReady returns whether the filter has warmed up.
func (m *Monitor) IsReady() bool {
	return m.filter.Ready()
}

// IsFaulted returns whether the sensor fault fail-safe is active.
func (m *Monitor) IsFaulted() bool {
	return m.faulted
}

// CurrentState returns the reported state, including any fail-safe override.
func (m *Monitor) CurrentState() State {
	return m.reported
}

// LastReading returns the most recent successful reading.
func (m *Monitor) LastReading() Reading {
	return m.last
}

// Samples returns the number of successfully processed samples.
func (m *Monitor) Samples() int {
	return m.samples
}

// EventCountsSnapshot returns a copy of the transition counters.
func (m *Monitor) EventCountsSnapshot() EventCounts {
	return m.eventCounts
}

// Config returns the monitor configuration.
func (m *Monitor) Config() MonitorConfig {
	return m.cfg
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet ready, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !m.IsReady() {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Counts:    m.eventCounts,
		Reading:   m.last,
	}
}
