package logic

// FilterWindow is the number of samples averaged by Filter.
const FilterWindow = 5

// Filter is a fixed-window moving average over the last FilterWindow samples.
// The zero value is an empty filter ready for use.
type Filter struct {
	window [FilterWindow]TempX10
	sum    int32
	count  int // saturates at FilterWindow
	index  int // next write position
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Update inserts sample and returns the truncated average of the window.
// The boolean is false for the first FilterWindow-1 calls; the call that
// fills the window returns the first average.
func (f *Filter) Update(sample TempX10) (TempX10, bool) {
	if f.count < FilterWindow {
		f.window[f.index] = sample
		f.sum += int32(sample)
		f.index = (f.index + 1) % FilterWindow
		f.count++
		if f.count < FilterWindow {
			return 0, false
		}
		return TempX10(f.sum / FilterWindow), true
	}

	// Evict the oldest value before it is overwritten.
	f.sum -= int32(f.window[f.index])
	f.window[f.index] = sample
	f.sum += int32(sample)
	f.index = (f.index + 1) % FilterWindow

	return TempX10(f.sum / FilterWindow), true
}

// Ready reports whether a full window has been accepted.
func (f *Filter) Ready() bool {
	return f.count >= FilterWindow
}
