// Package adc provides raw temperature sensor input with hardware abstraction.
// The real implementation reads a Linux IIO channel through sysfs.
// The fake implementation allows testing without hardware.
package adc

import "github.com/sweeney/thermal-sensor/internal/logic"

// Reader reads raw 12-bit ADC samples.
type Reader interface {
	// Read returns the latest raw sample. Out-of-range values are passed
	// through unchanged; conversion clamps them.
	Read() (logic.RawSample, error)

	// Close releases ADC resources.
	Close() error
}

// DefaultPath is the IIO raw value file for channel 0 of the first ADC.
const DefaultPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"
