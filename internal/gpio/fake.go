package gpio

import "github.com/sweeney/thermal-sensor/internal/logic"

// FakeAlarm records line levels for test assertions.
type FakeAlarm struct {
	// Levels contains every level driven, 1 for asserted.
	Levels []int

	// SetError, if set, will be returned by Set()
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeAlarm creates a FakeAlarm with no recorded levels.
func NewFakeAlarm() *FakeAlarm {
	return &FakeAlarm{}
}

// Set records the level for state.
func (f *FakeAlarm) Set(state logic.State) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Levels = append(f.Levels, state.Bit())
	return nil
}

// Level returns the last driven level, or -1 if Set was never called.
func (f *FakeAlarm) Level() int {
	if len(f.Levels) == 0 {
		return -1
	}
	return f.Levels[len(f.Levels)-1]
}

// Close marks the alarm as closed.
func (f *FakeAlarm) Close() error {
	f.Closed = true
	return nil
}
