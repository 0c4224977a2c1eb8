package sample

import (
	"testing"
	"time"

	"github.com/itohio/scalarscope/pkg/config"
	"github.com/itohio/scalarscope/pkg/daq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrate(t *testing.T) {
	channels := []config.ChannelConfig{
		{Label: "a", Gain: 2, Offset: 1},
		{Label: "b", Gain: 0, Offset: -1},
	}

	tests := []struct {
		name string
		v    float64
		ch   int
		want float64
	}{
		{name: "gain and offset", v: 3, ch: 0, want: 7},
		{name: "zero gain means unity", v: 3, ch: 1, want: 2},
		{name: "unconfigured channel passes through", v: 3, ch: 2, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calibrate(tt.v, tt.ch, channels), 1e-12)
		})
	}
}

func TestLabelsFor(t *testing.T) {
	channels := []config.ChannelConfig{{Label: "pd"}, {Label: "tc"}}

	assert.Equal(t, []string{"pd", "tc"}, labelsFor(2, channels))
	assert.Nil(t, labelsFor(3, channels))
	assert.Nil(t, labelsFor(2, []config.ChannelConfig{{Label: "pd"}, {}}))
	assert.Nil(t, labelsFor(1, nil))
}

func TestConvertEvent(t *testing.T) {
	cfg := &config.AcquisitionConfig{
		Channels: []config.ChannelConfig{
			{Label: "pd", Gain: 10, Offset: 0},
			{Label: "tc", Gain: 1, Offset: 0.5},
		},
	}
	now := time.Now()

	ev := convertEvent(daq.RawEvent{Timestamp: now, Values: []float64{0.1, 1}}, cfg)

	assert.Equal(t, now, ev.Timestamp)
	assert.InDeltaSlice(t, []float64{1, 1.5}, ev.Values, 1e-12)
	assert.Equal(t, []string{"pd", "tc"}, ev.Labels)
}

func TestNewConverter_ChannelProcessing(t *testing.T) {
	cfg := &config.AcquisitionConfig{}
	converter := NewConverter(cfg, 10)

	in := make(chan daq.RawEvent, 10)
	out := converter(in)

	now := time.Now()
	for i := range 3 {
		in <- daq.RawEvent{Timestamp: now.Add(time.Duration(i) * time.Millisecond), Values: []float64{float64(i), 1}}
	}
	close(in)

	var events []Event
	for ev := range out {
		events = append(events, ev)
	}

	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, []float64{float64(i), 1}, ev.Values)
		assert.Nil(t, ev.Labels)
	}
}

func TestNewConverter_EmptyChannel(t *testing.T) {
	converter := NewConverter(&config.AcquisitionConfig{}, 0)

	in := make(chan daq.RawEvent)
	out := converter(in)
	close(in)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "output should close when input closes")
	case <-time.After(time.Second):
		t.Fatal("output channel did not close")
	}
}
