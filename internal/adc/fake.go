package adc

import (
	"errors"

	"github.com/sweeney/thermal-sensor/internal/logic"
)

// ErrNoSamples is returned by a FakeReader with an empty script.
var ErrNoSamples = errors.New("no samples configured")

// Step is one scripted Read result. A non-nil Err is returned instead of Raw.
type Step struct {
	Raw logic.RawSample
	Err error
}

// FakeReader is a test double that replays a script of ADC results.
type FakeReader struct {
	// Steps is consumed one per Read. Once exhausted the last step repeats.
	Steps []Step

	index int

	// Reads counts calls to Read.
	Reads int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeReader scripts a sequence of successful reads.
func NewFakeReader(samples []logic.RawSample) *FakeReader {
	steps := make([]Step, len(samples))
	for i, s := range samples {
		steps[i] = Step{Raw: s}
	}
	return &FakeReader{Steps: steps}
}

// Read returns the next scripted step.
func (f *FakeReader) Read() (logic.RawSample, error) {
	f.Reads++
	if len(f.Steps) == 0 {
		return 0, ErrNoSamples
	}

	step := f.Steps[f.index]
	if f.index < len(f.Steps)-1 {
		f.index++
	}
	if step.Err != nil {
		return 0, step.Err
	}
	return step.Raw, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}
