//go:build linux

package gpio

import (
	"fmt"

	"github.com/sweeney/thermal-sensor/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

// RealAlarm drives the alarm line on actual hardware using Linux GPIO character device.
type RealAlarm struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

// NewRealAlarm requests pin as an output, initially released (SAFE).
// With activeLow the line is pulled low while UNSAFE.
func NewRealAlarm(pin int, activeLow bool) (*RealAlarm, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := chip.RequestLine(pin, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request alarm pin %d: %w", pin, err)
	}

	return &RealAlarm{
		chip: chip,
		line: line,
		pin:  pin,
	}, nil
}

// Set asserts the line for UNSAFE and releases it for SAFE.
func (r *RealAlarm) Set(state logic.State) error {
	if err := r.line.SetValue(state.Bit()); err != nil {
		return fmt.Errorf("set alarm pin %d: %w", r.pin, err)
	}
	return nil
}

// Close releases GPIO resources.
// The line is returned to input with pull-down (matching Pi boot defaults)
// so the alarm is not left latched across a restart.
func (r *RealAlarm) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure alarm pin: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close alarm pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
