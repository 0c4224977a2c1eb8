package main

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/scalarscope/pkg/config"
	"github.com/itohio/scalarscope/pkg/daq"
	"github.com/itohio/scalarscope/pkg/sample"
)

func testEvents(values ...[]float64) []sample.Event {
	out := make([]sample.Event, len(values))
	for i, v := range values {
		out[i] = sample.Event{Timestamp: time.Unix(int64(i), 0), Values: v}
	}
	return out
}

func TestEventBatcher(t *testing.T) {
	b := newEventBatcher(10 * time.Millisecond)
	start := time.Unix(100, 0)
	evs := testEvents([]float64{1}, []float64{2}, []float64{3})

	// The first event is shown right away
	batch := b.Add(evs[0], start)
	require.Len(t, batch, 1)

	// Events within the interval are held back
	assert.Nil(t, b.Add(evs[1], start.Add(5*time.Millisecond)))

	batch = b.Add(evs[2], start.Add(10*time.Millisecond))
	require.Len(t, batch, 2)
	assert.Equal(t, []float64{2}, batch[0].Values)
	assert.Equal(t, []float64{3}, batch[1].Values)

	assert.Nil(t, b.Flush())
}

func TestEventBatcher_Flush(t *testing.T) {
	b := newEventBatcher(time.Hour)
	start := time.Unix(100, 0)
	evs := testEvents([]float64{1}, []float64{2})

	b.Add(evs[0], start)
	assert.Nil(t, b.Add(evs[1], start.Add(time.Second)))

	batch := b.Flush()
	require.Len(t, batch, 1)
	assert.Equal(t, []float64{2}, batch[0].Values)
	assert.Nil(t, b.Flush())
}

func TestStartChain(t *testing.T) {
	test.NewTempApp(t)
	cfg := config.Default()
	cfg.Mock.SampleRate = 5 * time.Millisecond
	dev := daq.NewMock(&cfg.Mock)
	require.NoError(t, dev.Connect())

	var shown []sample.Event
	batches := make(chan []sample.Event, 100)
	chain := startChain(dev, 0, sample.NewConverter(&cfg.Acquisition, 10), func(b []sample.Event) {
		batches <- b
	})

	// Wait for a few events, then shut down
	timeout := time.After(5 * time.Second)
	for len(shown) < 3 {
		select {
		case b := <-batches:
			shown = append(shown, b...)
		case <-timeout:
			t.Fatal("no events shown")
		}
	}

	closeAcquisitionChain(chain)

	select {
	case <-chain.done:
	default:
		t.Fatal("display goroutine still running")
	}
	for _, ev := range shown {
		assert.Len(t, ev.Values, 2)
	}
}
