package viewer

import (
	"fmt"

	"github.com/itohio/scalarscope/pkg/history"
)

// Input is what Submit accepts: DataFromPlugins or the deprecated Legacy list.
type Input interface {
	isInput()
}

// DataFromPlugins is the labeled container emitted by acquisition plugins.
// Each element of Data carries one scalar, optionally wrapped in a
// one-element slice.
type DataFromPlugins struct {
	Name   string
	Dim    string
	Data   [][]float64
	Labels []string
}

func (DataFromPlugins) isInput() {}

// Legacy is a bare list of readings, one per channel. Elements may be plain
// numbers or one-element slices.
//
// Deprecated: submit DataFromPlugins instead.
type Legacy []any

func (Legacy) isInput() {}

// toData converts the legacy list into the container form.
func (l Legacy) toData() (DataFromPlugins, error) {
	data := make([][]float64, len(l))
	for i, v := range l {
		f, err := history.Scalar(v)
		if err != nil {
			return DataFromPlugins{}, fmt.Errorf("reading %d: %w", i, err)
		}
		data[i] = []float64{f}
	}
	return DataFromPlugins{Dim: "Data0D", Data: data}, nil
}

// NewData0D builds a DataFromPlugins from plain values.
func NewData0D(name string, values []float64, labels ...string) DataFromPlugins {
	data := make([][]float64, len(values))
	for i, v := range values {
		data[i] = []float64{v}
	}
	return DataFromPlugins{
		Name:   name,
		Dim:    "Data0D",
		Data:   data,
		Labels: labels,
	}
}
