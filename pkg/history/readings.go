package history

import (
	"fmt"
	"sort"
)

// Entry is one channel reading. Value is a number or a one-element slice of numbers.
type Entry struct {
	Key   string
	Value any
}

// Readings is one event worth of readings. It is either Keyed or Positional.
type Readings interface {
	entries() ([]Entry, error)
}

// Keyed readings name their channels explicitly. Order decides the position
// of channels that are new to the buffer.
type Keyed []Entry

func (k Keyed) entries() ([]Entry, error) {
	return k, nil
}

// Positional readings get synthesized keys data_00, data_01, ... in order.
type Positional []any

func (p Positional) entries() ([]Entry, error) {
	out := make([]Entry, len(p))
	for i, v := range p {
		out[i] = Entry{Key: PositionalKey(i), Value: v}
	}
	return out, nil
}

// PositionalKey returns the synthesized key for position i.
func PositionalKey(i int) string {
	return fmt.Sprintf("data_%02d", i)
}

// FromMap builds Keyed readings from a map, ordering keys lexically.
func FromMap(m map[string]any) Keyed {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Keyed, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: k, Value: m[k]}
	}
	return out
}

// Zip pairs keys with values. Both must have the same length.
func Zip(keys []string, values []any) (Keyed, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("got %d keys for %d values", len(keys), len(values))
	}
	out := make(Keyed, len(keys))
	for i := range keys {
		out[i] = Entry{Key: keys[i], Value: values[i]}
	}
	return out, nil
}

// Scalar unwraps v to a float64. Plain numbers and single-element slices of
// numbers are accepted.
func Scalar(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case []float64:
		if len(x) == 1 {
			return x[0], nil
		}
		return 0, fmt.Errorf("%w: %d values", ErrNotScalar, len(x))
	case []float32:
		if len(x) == 1 {
			return float64(x[0]), nil
		}
		return 0, fmt.Errorf("%w: %d values", ErrNotScalar, len(x))
	case []int:
		if len(x) == 1 {
			return float64(x[0]), nil
		}
		return 0, fmt.Errorf("%w: %d values", ErrNotScalar, len(x))
	case []any:
		if len(x) == 1 {
			return Scalar(x[0])
		}
		return 0, fmt.Errorf("%w: %d values", ErrNotScalar, len(x))
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrNotScalar, v)
	}
}
