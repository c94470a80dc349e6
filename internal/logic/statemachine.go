package logic

// StateMachine classifies smoothed temperatures into SAFE/UNSAFE with hysteresis.
// Thresholds are not validated; callers supply lowX10 <= highX10.
type StateMachine struct {
	highX10 TempX10
	lowX10  TempX10
	state   State
}

// NewStateMachine creates a machine in StateSafe.
func NewStateMachine(highX10, lowX10 TempX10) *StateMachine {
	return &StateMachine{
		highX10: highX10,
		lowX10:  lowX10,
		state:   StateSafe,
	}
}

// Evaluate applies one temperature and returns the resulting state.
// SAFE trips at t >= high; UNSAFE recovers at t <= low. Both edges are inclusive.
func (m *StateMachine) Evaluate(t TempX10) State {
	switch m.state {
	case StateSafe:
		if t >= m.highX10 {
			m.state = StateUnsafe
		}
	case StateUnsafe:
		if t <= m.lowX10 {
			m.state = StateSafe
		}
	}
	return m.state
}

// State returns the current state without evaluating anything.
func (m *StateMachine) State() State {
	return m.state
}

// Thresholds returns the configured (high, low) pair.
func (m *StateMachine) Thresholds() (high, low TempX10) {
	return m.highX10, m.lowX10
}
