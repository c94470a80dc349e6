package adc

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/sweeney/thermal-sensor/internal/logic"
)

// ErrClosed is returned by Read after Close.
var ErrClosed = errors.New("adc: reader closed")

// SysfsReader reads an IIO voltage channel exposed as a decimal text file.
type SysfsReader struct {
	path   string
	closed bool
}

// NewSysfsReader checks that path is readable and returns a reader for it.
func NewSysfsReader(path string) (*SysfsReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open adc channel: %w", err)
	}
	return &SysfsReader{path: path}, nil
}

// Read re-reads the channel file. IIO drivers trigger a conversion on each read.
func (r *SysfsReader) Read() (logic.RawSample, error) {
	if r.closed {
		return 0, ErrClosed
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("read adc channel: %w", err)
	}
	return parseRaw(data)
}

// Close marks the reader as closed. The sysfs file is not held open between reads.
func (r *SysfsReader) Close() error {
	r.closed = true
	return nil
}

func parseRaw(data []byte) (logic.RawSample, error) {
	s := string(bytes.TrimSpace(data))
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, fmt.Errorf("parse adc value %q: %w", s, err)
		}
		v = math.MaxUint64
	}
	// Out-of-range codes saturate at ADCMax.
	if v > uint64(logic.ADCMax) {
		v = uint64(logic.ADCMax)
	}
	return logic.RawSample(v), nil
}
