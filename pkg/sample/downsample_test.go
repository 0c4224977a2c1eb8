package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecimate_NoDecimation(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5}

	got := Decimate(nil, src, 10)

	assert.Equal(t, src, got)
	got[0] = 99
	assert.Equal(t, 1.0, src[0], "result must not alias the source")
}

func TestDecimate_WithDecimation(t *testing.T) {
	src := make([]float64, 100)
	for i := range src {
		src[i] = float64(i)
	}

	got := Decimate(nil, src, 10)

	assert.Len(t, got, 10)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 10.0, got[1])
	assert.Equal(t, 99.0, got[9], "newest value is kept")
}

func TestDecimate_DestinationReuse(t *testing.T) {
	src := make([]float64, 50)
	dst := make([]float64, 0, 20)

	got := Decimate(dst, src, 20)

	assert.Len(t, got, 20)
	assert.Equal(t, 20, cap(got))
	assert.Same(t, &dst[:1][0], &got[0])
}

func TestDecimate_EmptyInput(t *testing.T) {
	assert.Empty(t, Decimate(nil, nil, 10))
	assert.Empty(t, Decimate(nil, []float64{}, 0))
}

func TestDecimate_ExactMaxPoints(t *testing.T) {
	src := []float64{1, 2, 3}
	assert.Equal(t, src, Decimate(nil, src, 3))
}

func TestDecimate_Unlimited(t *testing.T) {
	src := []float64{1, 2, 3}
	assert.Equal(t, src, Decimate(make([]float64, 0, 1), src, 0))
}
