package internal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/thermal-sensor/internal/adc"
	"github.com/sweeney/thermal-sensor/internal/gpio"
	"github.com/sweeney/thermal-sensor/internal/logic"
	"github.com/sweeney/thermal-sensor/internal/mqtt"
	"github.com/sweeney/thermal-sensor/internal/status"
)

const pollInterval = 10 * time.Millisecond

var startTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// pipeline wires the fakes together the same way the daemon loop does.
type pipeline struct {
	reader    *adc.FakeReader
	monitor   *logic.Monitor
	publisher *mqtt.FakePublisher
	alarm     *gpio.FakeAlarm
	tracker   *status.Tracker
}

func newPipeline(reader *adc.FakeReader, cfg logic.MonitorConfig) *pipeline {
	return &pipeline{
		reader:    reader,
		monitor:   logic.NewMonitor(cfg, startTime),
		publisher: mqtt.NewFakePublisher(),
		alarm:     gpio.NewFakeAlarm(),
		tracker:   status.NewTracker(startTime, status.Config{HighX10: cfg.HighX10, LowX10: cfg.LowX10}),
	}
}

// step performs one poll at tick i and returns the transitions it produced.
func (p *pipeline) step(t *testing.T, i int) []logic.Event {
	t.Helper()
	now := startTime.Add(time.Duration(i) * pollInterval)

	var events []logic.Event
	raw, err := p.reader.Read()
	if err != nil {
		p.tracker.AddReadError()
		events = p.monitor.ReadFailed(now)
	} else {
		_, events = p.monitor.Process(logic.Input{Raw: raw, Time: now})
	}

	for _, e := range events {
		if err := p.alarm.Set(e.State); err != nil {
			t.Fatalf("tick %d: alarm error: %v", i, err)
		}
		// Publish errors are logged by the daemon and never stop the loop.
		_ = p.publisher.Publish(e)
	}
	p.tracker.Update(p.monitor)
	return events
}

func (p *pipeline) runAll(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		p.step(t, i)
	}
}

func repeat(raw logic.RawSample, n int) []logic.RawSample {
	out := make([]logic.RawSample, n)
	for i := range out {
		out[i] = raw
	}
	return out
}

func concat(parts ...[]logic.RawSample) []logic.RawSample {
	var out []logic.RawSample
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// TestIntegrationFullFlow drives warm-up, a trip above the high threshold and
// recovery at the low threshold through the whole pipeline.
func TestIntegrationFullFlow(t *testing.T) {
	// 2048 -> 42.5, 3474 -> 100.0, 3350 -> 95.0
	samples := concat(repeat(2048, 5), repeat(3474, 5), repeat(3350, 5))
	p := newPipeline(adc.NewFakeReader(samples), logic.DefaultMonitorConfig())

	var firedAt []int
	for i := range samples {
		if events := p.step(t, i); len(events) > 0 {
			firedAt = append(firedAt, i)
		}
	}

	// The window is full of 100.0 only at tick 9 and full of 95.0 at tick 14.
	if len(firedAt) != 2 || firedAt[0] != 9 || firedAt[1] != 14 {
		t.Fatalf("transitions at ticks %v, want [9 14]", firedAt)
	}

	want := []struct {
		typ  logic.EventType
		temp logic.TempX10
		at   time.Time
	}{
		{logic.EventUnsafe, 1000, startTime.Add(9 * pollInterval)},
		{logic.EventSafe, 950, startTime.Add(14 * pollInterval)},
	}
	for i, w := range want {
		e := p.publisher.Events[i]
		if e.Type != w.typ || e.TempX10 != w.temp || !e.Timestamp.Equal(w.at) {
			t.Errorf("event %d: got %s/%d at %v, want %s/%d at %v",
				i, e.Type, e.TempX10, e.Timestamp, w.typ, w.temp, w.at)
		}
		if e.Reason != logic.ReasonThreshold {
			t.Errorf("event %d: reason %q", i, e.Reason)
		}
	}

	if got := p.alarm.Levels; len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("alarm levels: got %v, want [1 0]", got)
	}

	snap := p.tracker.Snapshot()
	if snap.State != logic.StateSafe || snap.Samples != 15 {
		t.Errorf("tracker: state=%s samples=%d", snap.State, snap.Samples)
	}
	if snap.Counts.Unsafe != 1 || snap.Counts.Safe != 1 {
		t.Errorf("counts: %+v", snap.Counts)
	}
}

// TestIntegrationNoEventsDuringWarmup verifies that a hot sensor produces no
// transition until the filter window is full.
func TestIntegrationNoEventsDuringWarmup(t *testing.T) {
	p := newPipeline(adc.NewFakeReader(repeat(4095, 4)), logic.DefaultMonitorConfig())
	p.runAll(t, 4)

	if len(p.publisher.Events) != 0 {
		t.Errorf("expected no events during warm-up, got %v", p.publisher.EventTypes())
	}
	if p.monitor.IsReady() {
		t.Error("monitor should not be ready after 4 samples")
	}

	// The fifth sample completes the window.
	events := p.step(t, 4)
	if len(events) != 1 || events[0].Type != logic.EventUnsafe || events[0].TempX10 != 1250 {
		t.Errorf("fifth sample: got %+v", events)
	}
}

// TestIntegrationHysteresisBand verifies that readings between the thresholds
// never change the state in either direction.
func TestIntegrationHysteresisBand(t *testing.T) {
	// 3425 -> 98.0
	samples := concat(repeat(3425, 10), repeat(3474, 5), repeat(3425, 10))
	p := newPipeline(adc.NewFakeReader(samples), logic.DefaultMonitorConfig())
	p.runAll(t, len(samples))

	types := p.publisher.EventTypes()
	if len(types) != 1 || types[0] != logic.EventUnsafe {
		t.Errorf("expected single UNSAFE, got %v", types)
	}
	if p.monitor.CurrentState() != logic.StateUnsafe {
		t.Errorf("state: got %s, want UNSAFE", p.monitor.CurrentState())
	}
}

// TestIntegrationSensorFault verifies the fail-safe after repeated read errors
// and recovery on the next good read.
func TestIntegrationSensorFault(t *testing.T) {
	fault := errors.New("i/o error")
	reader := &adc.FakeReader{Steps: []adc.Step{
		{Raw: 2048}, {Raw: 2048}, {Raw: 2048}, {Raw: 2048}, {Raw: 2048},
		{Err: fault}, {Err: fault}, {Err: fault}, {Err: fault},
		{Raw: 2048},
	}}
	cfg := logic.DefaultMonitorConfig()
	cfg.MaxConsecutiveErrors = 3
	p := newPipeline(reader, cfg)

	p.runAll(t, 8)
	if len(p.publisher.Events) != 1 {
		t.Fatalf("expected 1 event after 3 errors, got %d", len(p.publisher.Events))
	}
	e := p.publisher.Events[0]
	if e.Type != logic.EventUnsafe || e.Reason != logic.ReasonSensorFault || e.TempX10 != 425 {
		t.Errorf("fault event: got %+v", e)
	}
	if !p.tracker.Snapshot().Faulted {
		t.Error("tracker should report faulted")
	}

	// A fourth error does not repeat the transition.
	p.step(t, 8)
	if len(p.publisher.Events) != 1 {
		t.Errorf("expected no new event on continued fault, got %d", len(p.publisher.Events))
	}

	p.step(t, 9)
	if len(p.publisher.Events) != 2 || p.publisher.Events[1].Type != logic.EventSafe {
		t.Fatalf("expected SAFE on recovery, got %v", p.publisher.EventTypes())
	}
	if r := p.publisher.Events[1].Reason; r != logic.ReasonSensorRecovered {
		t.Errorf("recovery reason: got %q", r)
	}
	if got := p.alarm.Levels; len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("alarm levels: got %v, want [1 0]", got)
	}

	snap := p.tracker.Snapshot()
	if snap.Faulted || snap.ReadErrors != 4 || snap.Counts.Faults != 1 {
		t.Errorf("tracker: faulted=%v read_errors=%d faults=%d", snap.Faulted, snap.ReadErrors, snap.Counts.Faults)
	}
}

// TestIntegrationPublishFailureDoesNotCrash verifies the alarm still follows
// the state when the broker is unreachable.
func TestIntegrationPublishFailureDoesNotCrash(t *testing.T) {
	samples := concat(repeat(3474, 5), repeat(3350, 5))
	p := newPipeline(adc.NewFakeReader(samples), logic.DefaultMonitorConfig())
	p.publisher.PublishError = errors.New("connection refused")

	p.runAll(t, len(samples))

	if len(p.publisher.Events) != 0 {
		t.Errorf("expected no recorded events, got %d", len(p.publisher.Events))
	}
	if got := p.alarm.Levels; len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("alarm levels: got %v, want [1 0]", got)
	}
}

// TestIntegrationPayloadFormat verifies the exact JSON structure of a transition.
func TestIntegrationPayloadFormat(t *testing.T) {
	p := newPipeline(adc.NewFakeReader(repeat(3474, 5)), logic.DefaultMonitorConfig())
	p.runAll(t, 5)

	expected := `{"sensor":{"timestamp":"2026-01-01T12:00:00Z","event":"UNSAFE","state":"UNSAFE","state_bit":1,"temp_x10":1000,"temperature":"100.0","reason":"threshold"}}`
	if len(p.publisher.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(p.publisher.Payloads))
	}
	if string(p.publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", p.publisher.Payloads[0], expected)
	}
}

// TestIntegrationHeartbeatAfterTransitions verifies the heartbeat status
// payload reflects the pipeline state.
func TestIntegrationHeartbeatAfterTransitions(t *testing.T) {
	samples := concat(repeat(3474, 5), repeat(3350, 5))
	p := newPipeline(adc.NewFakeReader(samples), logic.DefaultMonitorConfig())
	p.runAll(t, len(samples))

	hbTime := startTime.Add(15 * time.Minute)
	hb := p.monitor.CheckHeartbeat(hbTime, 15*time.Minute)
	if hb == nil {
		t.Fatal("expected heartbeat")
	}
	if hb.Counts.Unsafe != 1 || hb.Counts.Safe != 1 || hb.Reading.SmoothedX10 != 950 {
		t.Errorf("heartbeat data: %+v", hb)
	}

	p.publisher.Connected = true
	p.tracker.SetMQTTConnected(p.publisher.IsConnected())
	err := p.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  hb.Timestamp,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(p.tracker.Snapshot(), "HEARTBEAT", ""),
	})
	if err != nil {
		t.Fatalf("publish heartbeat: %v", err)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(p.publisher.SystemPayloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status
	if s.Event != "HEARTBEAT" || s.State != "SAFE" || s.StateBit != 0 || !s.Ready {
		t.Errorf("status: %+v", s)
	}
	if s.Reading == nil || s.Reading.SmoothedX10 == nil || *s.Reading.SmoothedX10 != 950 {
		t.Errorf("reading: %+v", s.Reading)
	}
	if s.Counts.Unsafe != 1 || s.Counts.Safe != 1 || !s.MQTT.Connected {
		t.Errorf("counts=%+v mqtt=%+v", s.Counts, s.MQTT)
	}
	if s.Config.HighX10 != 1000 || s.Config.LowX10 != 950 {
		t.Errorf("config: %+v", s.Config)
	}
}

// TestIntegrationShutdownPayloadFormat verifies the plain system payload used
// when no status snapshot is attached.
func TestIntegrationShutdownPayloadFormat(t *testing.T) {
	publisher := mqtt.NewFakePublisher()
	err := publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 15, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T15:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(publisher.SystemPayloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", publisher.SystemPayloads[0], expected)
	}
}
