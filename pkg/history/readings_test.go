package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    float64
		wantErr bool
	}{
		{name: "float64", in: 2.5, want: 2.5},
		{name: "float32", in: float32(0.5), want: 0.5},
		{name: "int", in: 3, want: 3},
		{name: "uint16", in: uint16(4095), want: 4095},
		{name: "wrapped float64", in: []float64{1.25}, want: 1.25},
		{name: "wrapped float32", in: []float32{2}, want: 2},
		{name: "wrapped int", in: []int{7}, want: 7},
		{name: "wrapped any", in: []any{[]float64{9}}, want: 9},
		{name: "empty slice", in: []float64{}, wantErr: true},
		{name: "two values", in: []float64{1, 2}, wantErr: true},
		{name: "string", in: "1.0", wantErr: true},
		{name: "nil", in: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scalar(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotScalar)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionalKeys(t *testing.T) {
	entries, err := Positional{1, 2, 3}.entries()
	require.NoError(t, err)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"data_00", "data_01", "data_02"}, keys)
	assert.Equal(t, "data_12", PositionalKey(12))
}

func TestFromMap(t *testing.T) {
	k := FromMap(map[string]any{"CH1": 2.0, "CH0": 1})

	require.Len(t, k, 2)
	assert.Equal(t, "CH0", k[0].Key)
	assert.Equal(t, "CH1", k[1].Key)
}

func TestZip(t *testing.T) {
	k, err := Zip([]string{"a", "b"}, []any{1, []float64{2}})
	require.NoError(t, err)
	assert.Equal(t, Keyed{{"a", 1}, {"b", []float64{2}}}, k)

	_, err = Zip([]string{"a"}, []any{1, 2})
	assert.Error(t, err)
}
