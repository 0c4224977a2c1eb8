package sample

import (
	"time"

	"github.com/itohio/scalarscope/pkg/config"
	"github.com/itohio/scalarscope/pkg/daq"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// Event is one calibrated acquisition event.
type Event struct {
	Timestamp time.Time
	Values    []float64
	Labels    []string // Channel labels from configuration, nil when they do not apply
}

// Converter is a function type that converts a RawEvent channel to an Event channel.
type Converter func(in <-chan daq.RawEvent) <-chan Event

// NewConverter creates a converter that applies the channel calibration in cfg.
func NewConverter(cfg *config.AcquisitionConfig, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan daq.RawEvent) <-chan Event {
		out := make(chan Event, bufSize)

		go func() {
			defer close(out)

			for raw := range in {
				ev := convertEvent(raw, cfg)

				select {
				case out <- ev:
				case <-time.After(time.Second):
					log.Warn("Converter output channel full, dropping event")
				}
			}
		}()

		return out
	}
}

// convertEvent applies gain and offset of configured channels. Channels
// beyond the configured ones pass through unchanged.
func convertEvent(raw daq.RawEvent, cfg *config.AcquisitionConfig) Event {
	values := make([]float64, len(raw.Values))
	for i, v := range raw.Values {
		values[i] = calibrate(v, i, cfg.Channels)
	}

	return Event{
		Timestamp: raw.Timestamp,
		Values:    values,
		Labels:    labelsFor(len(values), cfg.Channels),
	}
}

// calibrate converts a raw value of channel i: gain*v + offset.
func calibrate(v float64, i int, channels []config.ChannelConfig) float64 {
	if i >= len(channels) {
		return v
	}
	gain := channels[i].Gain
	if gain == 0 {
		gain = 1
	}
	return gain*v + channels[i].Offset
}

// labelsFor returns configured labels when they cover exactly n channels.
func labelsFor(n int, channels []config.ChannelConfig) []string {
	if n != len(channels) {
		return nil
	}
	labels := make([]string, n)
	for i, ch := range channels {
		if ch.Label == "" {
			return nil
		}
		labels[i] = ch.Label
	}
	return labels
}
