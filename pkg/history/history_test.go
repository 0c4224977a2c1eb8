package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffer(t *testing.T, capacity int) *Buffer {
	t.Helper()
	b, err := New(capacity)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := newBuffer(t, 200)

	assert.Equal(t, 200, b.Capacity())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.EventCount())
	assert.Empty(t, b.Keys())
	assert.Empty(t, b.XAxis())

	_, err := New(-1)
	assert.ErrorIs(t, err, ErrNegativeCapacity)
}

func TestAddDatas_Positional(t *testing.T) {
	const capacity = 2
	b := newBuffer(t, capacity)

	dat := []Positional{
		{1, 2},
		{[]float64{1}, 2},
		{1, 2.0},
		{1, 2},
		{1, 2},
		{1, 2},
	}
	for i, d := range dat {
		require.NoError(t, b.AddDatas(d))

		events := i + 1
		assert.Equal(t, events, b.EventCount())
		assert.Equal(t, min(events, capacity), b.Len())
		assert.Equal(t, []string{"data_00", "data_01"}, b.Keys())

		want := make([]float64, 0)
		for x := max(1, events-capacity+1); x <= events; x++ {
			want = append(want, float64(x))
		}
		assert.Equal(t, want, b.XAxis())
	}
}

func TestAddDatas_Keyed(t *testing.T) {
	b := newBuffer(t, 200)

	dat := []Keyed{
		{{"CH0", 1}, {"CH1", 2.0}},
		{{"CH0", []float64{1.1}}, {"CH1", 1.1}},
		{{"CH0", 1}, {"CH1", 2.0}},
		{{"CH0", 4}, {"CH1", 3.0}},
	}
	for i, d := range dat {
		require.NoError(t, b.AddDatas(d))
		assert.Equal(t, i+1, b.Len())
	}

	ch0, ok := b.Data("CH0")
	require.True(t, ok)
	ch1, ok := b.Data("CH1")
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{1, 1.1, 1, 4}, ch0, 1e-12)
	assert.InDeltaSlice(t, []float64{2, 1.1, 2, 3}, ch1, 1e-12)
	assert.Equal(t, []float64{1, 2, 3, 4}, b.XAxis())
}

func TestAddDatas_CapacityTwoScenario(t *testing.T) {
	b := newBuffer(t, 2)

	require.NoError(t, b.AddDatas(Positional{1, 2}))
	require.NoError(t, b.AddDatas(Positional{3, 4}))
	require.NoError(t, b.AddDatas(Positional{5, 6}))

	d0, _ := b.Data("data_00")
	d1, _ := b.Data("data_01")
	assert.Equal(t, []float64{3, 5}, d0)
	assert.Equal(t, []float64{4, 6}, d1)
	assert.Equal(t, []float64{2, 3}, b.XAxis())
	assert.Equal(t, 3, b.EventCount())
}

func TestAddDatas_LengthProperty(t *testing.T) {
	for _, capacity := range []int{0, 1, 3, 7} {
		b := newBuffer(t, capacity)
		for i := range 20 {
			require.NoError(t, b.AddDatas(Keyed{{"a", i}, {"b", -i}, {"c", 0.5}}))

			want := min(b.EventCount(), capacity)
			assert.Equal(t, want, len(b.XAxis()), "capacity %d event %d", capacity, i)
			for _, d := range b.Datas() {
				assert.Len(t, d, want)
			}
		}
	}
}

func TestAddDatas_ZeroCapacity(t *testing.T) {
	b := newBuffer(t, 0)

	require.NoError(t, b.AddDatas(Positional{1.5}))
	require.NoError(t, b.AddDatas(Positional{2.5}))

	assert.Equal(t, 2, b.EventCount())
	assert.Equal(t, 0, b.Len())
	d, ok := b.Data("data_00")
	require.True(t, ok)
	assert.Empty(t, d)
	assert.Empty(t, b.XAxis())
}

func TestAddDatas_NewChannelIsZeroPadded(t *testing.T) {
	b := newBuffer(t, 10)

	require.NoError(t, b.AddDatas(Keyed{{"a", 1}}))
	require.NoError(t, b.AddDatas(Keyed{{"a", 2}}))
	require.NoError(t, b.AddDatas(Keyed{{"a", 3}, {"b", 30}}))

	a, _ := b.Data("a")
	bb, _ := b.Data("b")
	assert.Equal(t, []float64{1, 2, 3}, a)
	assert.Equal(t, []float64{0, 0, 30}, bb)
	assert.Equal(t, []string{"a", "b"}, b.Keys())
}

func TestAddDatas_MissingChannelLeavesStateUntouched(t *testing.T) {
	b := newBuffer(t, 10)
	require.NoError(t, b.AddDatas(Keyed{{"a", 1}, {"b", 2}}))

	err := b.AddDatas(Keyed{{"a", 3}})
	assert.ErrorIs(t, err, ErrMissingChannel)

	assert.Equal(t, 1, b.EventCount())
	a, _ := b.Data("a")
	assert.Equal(t, []float64{1}, a)
}

func TestAddDatas_NotScalar(t *testing.T) {
	b := newBuffer(t, 10)
	require.NoError(t, b.AddDatas(Positional{1, 2}))

	err := b.AddDatas(Positional{1, []float64{2, 3}})
	assert.ErrorIs(t, err, ErrNotScalar)

	err = b.AddDatas(Positional{"x", 3})
	assert.ErrorIs(t, err, ErrNotScalar)

	assert.Equal(t, 1, b.EventCount())
	assert.Equal(t, 1, b.Len())
}

func TestAddDatas_DuplicateKey(t *testing.T) {
	b := newBuffer(t, 10)

	err := b.AddDatas(Keyed{{"a", 1}, {"a", 2}})
	assert.Error(t, err)
	assert.Equal(t, 0, b.EventCount())
	assert.Empty(t, b.Keys())
}

func TestUpdateHistoryLength(t *testing.T) {
	b := newBuffer(t, 10)
	for i := 1; i <= 6; i++ {
		require.NoError(t, b.AddDatas(Keyed{{"a", i}, {"b", 10 * i}}))
	}

	require.NoError(t, b.UpdateHistoryLength(3))

	a, _ := b.Data("a")
	bb, _ := b.Data("b")
	assert.Equal(t, []float64{4, 5, 6}, a)
	assert.Equal(t, []float64{40, 50, 60}, bb)
	assert.Equal(t, []float64{4, 5, 6}, b.XAxis())
	assert.Equal(t, 3, b.Capacity())
	assert.Equal(t, 6, b.EventCount())

	// Growing keeps the data and lets the window fill up again.
	require.NoError(t, b.UpdateHistoryLength(5))
	assert.Equal(t, 3, b.Len())
	require.NoError(t, b.AddDatas(Keyed{{"a", 7}, {"b", 70}}))
	assert.Equal(t, []float64{4, 5, 6, 7}, b.XAxis())

	require.NoError(t, b.UpdateHistoryLength(0))
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.XAxis())

	assert.ErrorIs(t, b.UpdateHistoryLength(-2), ErrNegativeCapacity)
	assert.Equal(t, 0, b.Capacity())
}

func TestClearData(t *testing.T) {
	b := newBuffer(t, 200)
	for i := range 4 {
		require.NoError(t, b.AddDatas(Keyed{{"CH0", i}, {"CH1", 2.0}}))
	}

	b.ClearData()
	first := b.Datas()
	b.ClearData()

	assert.Equal(t, first, b.Datas())
	assert.Equal(t, []string{"CH0", "CH1"}, b.Keys())
	assert.Equal(t, 0, b.EventCount())
	assert.Equal(t, 0, b.Len())
	for _, d := range b.Datas() {
		assert.Empty(t, d)
	}

	// Channels stay known, so the next event needs no redeclaration.
	require.NoError(t, b.AddDatas(Keyed{{"CH0", 5}, {"CH1", 6}}))
	assert.Equal(t, []float64{1}, b.XAxis())
}

func TestReset(t *testing.T) {
	b := newBuffer(t, 5)
	require.NoError(t, b.AddDatas(Positional{1, 2}))

	require.NoError(t, b.Reset([]string{"CH00", "CH01", "CH02"}))

	assert.Equal(t, []string{"CH00", "CH01", "CH02"}, b.Keys())
	assert.Equal(t, 0, b.EventCount())
	_, ok := b.Data("data_00")
	assert.False(t, ok)

	assert.Error(t, b.Reset([]string{"x", "x"}))
}

func TestRenameKeys(t *testing.T) {
	b := newBuffer(t, 5)
	require.NoError(t, b.AddDatas(Keyed{{"CH00", 1}, {"CH01", 2}}))
	require.NoError(t, b.AddDatas(Keyed{{"CH00", 3}, {"CH01", 4}}))

	require.NoError(t, b.RenameKeys([]string{"x", "y"}))

	x, ok := b.Data("x")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, x)
	_, ok = b.Data("CH00")
	assert.False(t, ok)
	assert.Equal(t, 2, b.EventCount())

	assert.Error(t, b.RenameKeys([]string{"only"}))
	assert.Error(t, b.RenameKeys([]string{"z", "z"}))
	assert.Equal(t, []string{"x", "y"}, b.Keys())
}

func TestAccessorsReturnCopies(t *testing.T) {
	b := newBuffer(t, 5)
	require.NoError(t, b.AddDatas(Positional{1}))

	d, _ := b.Data("data_00")
	d[0] = 99
	x := b.XAxis()
	x[0] = 99

	again, _ := b.Data("data_00")
	assert.Equal(t, []float64{1}, again)
	assert.Equal(t, []float64{1}, b.XAxis())
}
