package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"

	"github.com/itohio/scalarscope/pkg/daq"
	"github.com/itohio/scalarscope/pkg/sample"
	"github.com/itohio/scalarscope/pkg/viewer"
)

// updateInterval throttles viewer updates to ~60 FPS.
const updateInterval = 16 * time.Millisecond

// acquisitionChain tracks the components of the acquisition chain for graceful shutdown.
type acquisitionChain struct {
	device daq.Device
	events <-chan sample.Event
	done   chan struct{} // Closed when the display goroutine exits
}

// newDevice creates the serial or mocked device from the configuration.
func (s *appState) newDevice() daq.Device {
	if s.useMock {
		log.Info("Using mocked device")
		mockCfg := s.cfg.Mock
		return daq.NewMock(&mockCfg)
	}
	return daq.New(s.cfg.Serial.Port, s.cfg.Serial.BaudRate, daq.DefaultBufferSize)
}

// connect opens the device and starts feeding its events into the viewer.
func (s *appState) connect() error {
	device := s.newDevice()
	if err := device.Connect(); err != nil {
		if s.useMock {
			return fmt.Errorf("failed to connect to mocked device: %w", err)
		}
		return fmt.Errorf("failed to connect to %s: %w", s.cfg.Serial.Port, err)
	}
	s.device = device
	if s.useMock {
		log.Info("Connected to mocked device")
	} else {
		log.WithField("port", s.cfg.Serial.Port).Info("Connected to serial port")
	}

	s.chain = startChain(device, s.cfg.Acquisition.AverageEvents, sample.NewConverter(&s.cfg.Acquisition, 500), s.show)

	if _, ok := device.(daq.ChannelSetter); ok {
		s.addChannelBtn.Enable()
		s.delChannelBtn.Enable()
	}
	s.updateStatus()
	return nil
}

// disconnect gracefully closes the acquisition chain.
func (s *appState) disconnect() {
	if s.chain == nil {
		return
	}
	closeAcquisitionChain(s.chain)
	s.chain = nil
	s.device = nil

	s.addChannelBtn.Disable()
	s.delChannelBtn.Disable()
	s.updateStatus()
	if s.useMock {
		log.Info("Disconnected from mocked device")
	} else {
		log.Info("Disconnected from serial port")
	}
}

// show submits a batch of events to the viewer. Runs on the UI goroutine.
func (s *appState) show(batch []sample.Event) {
	for _, ev := range batch {
		s.viewer.Submit(viewer.NewData0D(s.cfg.Viewer.Title, ev.Values, ev.Labels...))
	}
	s.updateStatus()
}

// drainExports consumes the viewer's export records for the lifetime of the app.
func (s *appState) drainExports() {
	for rec := range s.viewer.Exports() {
		log.WithFields(logrus.Fields{
			"viewer":   rec.Name,
			"channels": len(rec.Data0D),
			"acq_time": rec.AcqTime.Format(time.RFC3339Nano),
		}).Debug("Exported data")
	}
}

// startChain chains the converters behind device and delivers batches of
// events to show on the UI goroutine.
func startChain(device daq.Device, averageEvents int, convert sample.Converter, show func([]sample.Event)) *acquisitionChain {
	// Base converter always used, averaging converter when enabled
	events := convert(device.Events())
	if averageEvents > 0 {
		events = sample.NewAveragingConverter(averageEvents, 500)(events)
	}

	chain := &acquisitionChain{
		device: device,
		events: events,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(chain.done)
		batcher := newEventBatcher(updateInterval)
		for ev := range events {
			if batch := batcher.Add(ev, time.Now()); batch != nil {
				fyne.Do(func() { show(batch) })
			}
		}
		if batch := batcher.Flush(); batch != nil {
			fyne.Do(func() { show(batch) })
		}
	}()

	return chain
}

// closeAcquisitionChain closes the device and waits for the converters to drain.
func closeAcquisitionChain(chain *acquisitionChain) {
	if chain == nil {
		return
	}

	// Close device - this will close the events channel
	if chain.device != nil {
		if err := chain.device.Close(); err != nil {
			log.WithError(err).Warn("Error closing device")
		}
	}

	// The display goroutine exits once the converters close their outputs
	<-chain.done
}
