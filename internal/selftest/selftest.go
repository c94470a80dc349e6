// Package selftest runs the calibration, filter and threshold checks against
// the signal pipeline and reports each as a named pass/fail result.
package selftest

import (
	"time"

	"github.com/sweeney/thermal-sensor/internal/adc"
	"github.com/sweeney/thermal-sensor/internal/logic"
	"github.com/sweeney/thermal-sensor/internal/report"
)

// Suite is the JUnit suite name used by the -junit flag.
const Suite = "thermal_sensor_go"

// Check is one named verification.
type Check struct {
	Name string
	Run  func() report.Result
}

// Checks returns the built-in checks in execution order.
func Checks() []Check {
	return []Check{
		{"test_conversion_full_range", conversionFullRange},
		{"test_conversion_clamp", conversionClamp},
		{"test_conversion_monotonic", conversionMonotonic},
		{"test_filter_warmup", filterWarmup},
		{"test_filter_noise_rejection", filterNoiseRejection},
		{"test_threshold_and_hysteresis", thresholdAndHysteresis},
		{"test_hysteresis_hold", hysteresisHold},
		{"test_end_to_end", endToEnd},
	}
}

// Run executes every check.
func Run() []report.Result {
	checks := Checks()
	results := make([]report.Result, 0, len(checks))
	for _, c := range checks {
		r := c.Run()
		r.Name = c.Name
		results = append(results, r)
	}
	return results
}

func conversionFullRange() report.Result {
	const name = "test_conversion_full_range"
	cases := []struct {
		adc      logic.RawSample
		expected logic.TempX10
		tol      int
	}{
		{0, -400, 0},
		{2048, 425, 10},
		{4095, 1250, 0},
	}
	for _, c := range cases {
		got := logic.ADCToTempX10(c.adc)
		if diff := int(got) - int(c.expected); diff > c.tol || diff < -c.tol {
			return report.Fail(name, "ADC %d => %d, expected %d±%d", c.adc, got, c.expected, c.tol)
		}
	}
	return report.Pass(name)
}

func conversionClamp() report.Result {
	const name = "test_conversion_clamp"
	want := logic.ADCToTempX10(logic.ADCMax)
	for _, raw := range []logic.RawSample{4096, 8191, 65535} {
		if got := logic.ADCToTempX10(raw); got != want {
			return report.Fail(name, "ADC %d => %d, expected clamp to %d", raw, got, want)
		}
	}
	return report.Pass(name)
}

func conversionMonotonic() report.Result {
	const name = "test_conversion_monotonic"
	prev := logic.ADCToTempX10(0)
	for raw := logic.RawSample(1); raw <= logic.ADCMax; raw++ {
		got := logic.ADCToTempX10(raw)
		if got < prev {
			return report.Fail(name, "ADC %d => %d decreased from %d", raw, got, prev)
		}
		prev = got
	}
	return report.Pass(name)
}

func filterWarmup() report.Result {
	const name = "test_filter_warmup"
	f := logic.NewFilter()
	for i := 1; i < logic.FilterWindow; i++ {
		if _, ok := f.Update(500); ok {
			return report.Fail(name, "call %d returned a value during warm-up", i)
		}
	}
	if _, ok := f.Update(500); !ok {
		return report.Fail(name, "call %d returned no value", logic.FilterWindow)
	}
	return report.Pass(name)
}

func filterNoiseRejection() report.Result {
	const name = "test_filter_noise_rejection"
	noisy := []logic.TempX10{500, 600, 450, 550, 500, 480, 520, 490}

	f := logic.NewFilter()
	var outputs []logic.TempX10
	for _, s := range noisy {
		if out, ok := f.Update(s); ok {
			outputs = append(outputs, out)
		}
	}

	if len(outputs) == 0 {
		return report.Fail(name, "filter produced no outputs")
	}
	if outputs[0] != 520 {
		return report.Fail(name, "first output %d, expected 520", outputs[0])
	}
	for _, o := range outputs {
		if o < 480 || o > 520 {
			return report.Fail(name, "filtered output %d out of expected band (480..520)", o)
		}
	}
	return report.Pass(name)
}

func thresholdAndHysteresis() report.Result {
	const name = "test_threshold_and_hysteresis"
	sm := logic.NewStateMachine(1000, 950)

	if sm.State() != logic.StateSafe {
		return report.Fail(name, "initial state must be SAFE")
	}
	steps := []struct {
		temp logic.TempX10
		want logic.State
		msg  string
	}{
		{999, logic.StateSafe, "must remain SAFE at 99.9C"},
		{1000, logic.StateUnsafe, "must transition to UNSAFE at 100.0C"},
		{990, logic.StateUnsafe, "must remain UNSAFE at 99.0C due to hysteresis"},
		{950, logic.StateSafe, "must recover to SAFE at 95.0C"},
	}
	for _, s := range steps {
		if got := sm.Evaluate(s.temp); got != s.want {
			return report.Fail(name, "%s (got %s)", s.msg, got)
		}
	}
	return report.Pass(name)
}

func hysteresisHold() report.Result {
	const name = "test_hysteresis_hold"
	for _, start := range []logic.State{logic.StateSafe, logic.StateUnsafe} {
		sm := logic.NewStateMachine(1000, 950)
		if start == logic.StateUnsafe {
			sm.Evaluate(1000)
		}
		for i := 0; i < 100; i++ {
			temp := logic.TempX10(951 + i%49)
			if got := sm.Evaluate(temp); got != start {
				return report.Fail(name, "state changed from %s to %s at %d", start, got, temp)
			}
		}
	}
	return report.Pass(name)
}

// endToEnd drives raw samples through the full monitor via a scripted reader and
// compares the final state to the state machine fed with precomputed smoothed values.
func endToEnd() report.Result {
	const name = "test_end_to_end"
	raw := []logic.RawSample{
		2048, 2048, 2048, 2048, 2048,
		3474, 3474, 3474, 3474, 3474, 3474,
		3350, 3350, 3350, 3350, 3350, 3350,
		4095, 4095, 4095, 4095, 4095,
	}

	f := logic.NewFilter()
	sm := logic.NewStateMachine(1000, 950)
	want := sm.State()
	for _, r := range raw {
		if s, ok := f.Update(logic.ADCToTempX10(r)); ok {
			want = sm.Evaluate(s)
		}
	}

	reader := adc.NewFakeReader(raw)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := logic.NewMonitor(logic.DefaultMonitorConfig(), start)
	var events []logic.Event
	for i := range raw {
		v, err := reader.Read()
		if err != nil {
			return report.Fail(name, "read sample %d: %v", i, err)
		}
		_, ev := m.Process(logic.Input{Raw: v, Time: start.Add(time.Duration(i) * 10 * time.Millisecond)})
		events = append(events, ev...)
	}

	if got := m.CurrentState(); got != want {
		return report.Fail(name, "pipeline final state %s, expected %s", got, want)
	}
	if len(events) != 3 {
		return report.Fail(name, "expected 3 transitions (UNSAFE, SAFE, UNSAFE), got %d", len(events))
	}
	return report.Pass(name)
}
