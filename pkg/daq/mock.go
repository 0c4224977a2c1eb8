package daq

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/itohio/scalarscope/pkg/config"
)

// Mock simulates a multi-channel acquisition device for testing and development.
type Mock struct {
	cfg *config.MockConfig

	events    chan RawEvent
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Simulation state
	channels   int
	startTime  time.Time
	lastChange time.Time
	rng        *rand.Rand
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}
	if cfg.SampleRate <= 0 {
		c := *cfg
		c.SampleRate = config.Default().Mock.SampleRate
		cfg = &c
	}
	channels := cfg.Channels
	if channels <= 0 {
		channels = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:      cfg,
		events:   make(chan RawEvent, DefaultBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		channels: channels,
		rng:      rand.New(rand.NewPCG(1, 2)),
	}
}

// Connect starts generating events.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}
	if m.ctx.Err() != nil {
		return fmt.Errorf("device closed")
	}

	m.connected = true
	m.startTime = time.Now()
	m.lastChange = m.startTime

	go m.generateEvents()

	return nil
}

// Close stops the mocked device. The events channel is closed once the
// generator exits.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.connected = false
	m.mu.Unlock()

	<-m.done
	return nil
}

// Events returns the channel of generated events.
func (m *Mock) Events() <-chan RawEvent {
	return m.events
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetChannels changes the number of simulated channels.
func (m *Mock) SetChannels(n int) error {
	if n <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = n
	return nil
}

// Channels returns the number of simulated channels.
func (m *Mock) Channels() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.channels
}

// generateEvents emits one event per tick until the device is closed.
func (m *Mock) generateEvents() {
	defer close(m.done)
	defer close(m.events)

	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			ev := m.generateEvent(now)
			select {
			case m.events <- ev:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateEvent computes one event at time now.
func (m *Mock) generateEvent(now time.Time) RawEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Alternate between the configured count and one more channel.
	if m.cfg.ChannelChangeEvery > 0 && now.Sub(m.lastChange) >= m.cfg.ChannelChangeEvery {
		if m.channels == m.cfg.Channels {
			m.channels++
		} else {
			m.channels = max(m.cfg.Channels, 1)
		}
		m.lastChange = now
	}

	elapsed := now.Sub(m.startTime).Seconds()
	values := make([]float64, m.channels)
	for i := range values {
		values[i] = m.signal(i, elapsed) + (m.rng.Float64()*2-1)*m.cfg.NoiseLevel
	}

	return RawEvent{
		Timestamp: now,
		Values:    values,
	}
}

// signal is the noiseless value of channel ch at t seconds: a sine whose
// amplitude grows with the channel index and whose phase is shifted per channel.
func (m *Mock) signal(ch int, t float64) float64 {
	period := m.cfg.Period.Seconds()
	if period <= 0 {
		return 0
	}
	phase := float64(ch) * math.Pi / 4
	return float64(ch+1) * math.Sin(2*math.Pi*t/period+phase)
}
