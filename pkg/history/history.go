package history

import (
	"errors"
	"fmt"
)

var (
	// ErrNotScalar is returned when a reading cannot be reduced to one number.
	ErrNotScalar = errors.New("reading is not a scalar")
	// ErrMissingChannel is returned when a known channel has no reading in an event.
	ErrMissingChannel = errors.New("missing reading for channel")
	// ErrInconsistent is returned when channel sequences and the index axis disagree in length.
	ErrInconsistent = errors.New("history buffer is inconsistent")
	// ErrNegativeCapacity is returned for capacities below zero.
	ErrNegativeCapacity = errors.New("capacity must not be negative")
)

// Buffer keeps a fixed-capacity rolling window of scalar readings per channel.
//
// All channel sequences share one length, which never exceeds the capacity.
// The index axis has the same length and ends at the number of events added
// since the last clear.
type Buffer struct {
	capacity int
	keys     []string
	datas    map[string][]float64
	xaxis    []float64
	events   int
}

// New creates an empty buffer retaining at most capacity samples per channel.
func New(capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCapacity, capacity)
	}
	return &Buffer{
		capacity: capacity,
		keys:     make([]string, 0),
		datas:    make(map[string][]float64),
		xaxis:    make([]float64, 0),
	}, nil
}

// Capacity returns the maximum number of retained samples per channel.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Len returns the common length of all channel sequences.
func (b *Buffer) Len() int {
	return len(b.xaxis)
}

// EventCount returns the number of events added since creation or the last clear.
func (b *Buffer) EventCount() int {
	return b.events
}

// Keys returns the channel keys in insertion order.
func (b *Buffer) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Data returns a copy of the window for one channel.
func (b *Buffer) Data(key string) ([]float64, bool) {
	d, ok := b.datas[key]
	if !ok {
		return nil, false
	}
	return append([]float64{}, d...), true
}

// Datas returns a copy of every channel window.
func (b *Buffer) Datas() map[string][]float64 {
	out := make(map[string][]float64, len(b.datas))
	for k, d := range b.datas {
		out[k] = append([]float64{}, d...)
	}
	return out
}

// XAxis returns a copy of the index axis.
func (b *Buffer) XAxis() []float64 {
	return append([]float64{}, b.xaxis...)
}

// AddDatas appends one reading per channel.
//
// New keys are zero-padded to the current common length before the append.
// Every known channel must be present in readings. Nothing is modified when
// an error is returned.
func (b *Buffer) AddDatas(readings Readings) error {
	entries, err := readings.entries()
	if err != nil {
		return err
	}

	values := make(map[string]float64, len(entries))
	newKeys := make([]string, 0)
	for _, e := range entries {
		v, err := Scalar(e.Value)
		if err != nil {
			return fmt.Errorf("channel %q: %w", e.Key, err)
		}
		if _, dup := values[e.Key]; dup {
			return fmt.Errorf("duplicate channel %q", e.Key)
		}
		values[e.Key] = v
		if _, known := b.datas[e.Key]; !known {
			newKeys = append(newKeys, e.Key)
		}
	}
	for _, k := range b.keys {
		if _, ok := values[k]; !ok {
			return fmt.Errorf("%w %q", ErrMissingChannel, k)
		}
	}

	n := b.Len()
	for _, k := range newKeys {
		b.keys = append(b.keys, k)
		b.datas[k] = make([]float64, n)
	}
	for _, k := range b.keys {
		b.datas[k] = append(b.datas[k], values[k])
	}
	b.events++

	length := n + 1
	if length > b.capacity {
		length = b.capacity
	}
	b.truncate(length)
	b.xaxis = indexAxis(b.xaxis[:0], length, b.events)

	return b.checkInvariants()
}

// UpdateHistoryLength changes the capacity, dropping the oldest samples
// immediately when the window is longer than the new capacity.
func (b *Buffer) UpdateHistoryLength(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCapacity, capacity)
	}
	b.capacity = capacity
	if b.Len() > capacity {
		b.truncate(capacity)
		b.xaxis = b.xaxis[len(b.xaxis)-capacity:]
	}
	return b.checkInvariants()
}

// ClearData empties every channel and the index axis and resets the event
// count. Channel keys are kept.
func (b *Buffer) ClearData() {
	for _, k := range b.keys {
		b.datas[k] = b.datas[k][:0]
	}
	b.xaxis = b.xaxis[:0]
	b.events = 0
}

// Reset replaces the channel set with keys and clears all history.
func (b *Buffer) Reset(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate channel %q", k)
		}
		seen[k] = struct{}{}
	}
	b.keys = append(make([]string, 0, len(keys)), keys...)
	b.datas = make(map[string][]float64, len(keys))
	for _, k := range keys {
		b.datas[k] = make([]float64, 0)
	}
	b.xaxis = b.xaxis[:0]
	b.events = 0
	return nil
}

// RenameKeys renames channels positionally, keeping their history.
func (b *Buffer) RenameKeys(keys []string) error {
	if len(keys) != len(b.keys) {
		return fmt.Errorf("rename needs %d keys, got %d", len(b.keys), len(keys))
	}
	datas := make(map[string][]float64, len(keys))
	for i, k := range keys {
		if _, dup := datas[k]; dup {
			return fmt.Errorf("duplicate channel %q", k)
		}
		datas[k] = b.datas[b.keys[i]]
	}
	b.keys = append(b.keys[:0], keys...)
	b.datas = datas
	return nil
}

// truncate keeps the last n samples of every channel.
func (b *Buffer) truncate(n int) {
	for _, k := range b.keys {
		d := b.datas[k]
		if len(d) > n {
			b.datas[k] = append(d[:0], d[len(d)-n:]...)
		}
	}
}

// checkInvariants verifies that every channel and the index axis share one
// length bounded by the capacity and that the axis ends at the event count.
func (b *Buffer) checkInvariants() error {
	n := len(b.xaxis)
	if n > b.capacity {
		return fmt.Errorf("%w: length %d exceeds capacity %d", ErrInconsistent, n, b.capacity)
	}
	for _, k := range b.keys {
		if len(b.datas[k]) != n {
			return fmt.Errorf("%w: channel %q has %d samples, axis has %d", ErrInconsistent, k, len(b.datas[k]), n)
		}
	}
	if n > 0 && b.xaxis[n-1] != float64(b.events) {
		return fmt.Errorf("%w: axis ends at %v, event count is %d", ErrInconsistent, b.xaxis[n-1], b.events)
	}
	return nil
}

// indexAxis fills dst with n consecutive event numbers ending at last.
func indexAxis(dst []float64, n, last int) []float64 {
	for i := range n {
		dst = append(dst, float64(last-n+1+i))
	}
	return dst
}
