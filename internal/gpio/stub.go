//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/thermal-sensor/internal/logic"
)

// RealAlarm is not available on non-Linux platforms.
type RealAlarm struct{}

// NewRealAlarm returns an error on non-Linux platforms.
func NewRealAlarm(pin int, activeLow bool) (*RealAlarm, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (r *RealAlarm) Set(logic.State) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealAlarm) Close() error {
	return nil
}
