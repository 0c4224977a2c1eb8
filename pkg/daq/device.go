package daq

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

var log = logrus.StandardLogger()

const (
	// DefaultBaudRate is the default serial baud rate.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the events channel buffer.
	DefaultBufferSize = 100
)

// RawEvent is one acquisition event: one reading per channel.
type RawEvent struct {
	Timestamp time.Time
	Values    []float64
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads events from a serial port, one CSV line per event.
type Serial struct {
	port     string
	baudRate int

	conn      serial.Port
	events    chan RawEvent
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	channels  int // Channel count of the last parsed event
}

// MaxChannels is the largest channel count the firmware accepts.
const MaxChannels = 9

// New creates a new Serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		events:    make(chan RawEvent, bufSize),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(names))
	for _, name := range names {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading events.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	conn, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = conn
	d.connected = true

	go d.readEvents(conn)

	return nil
}

// Close closes the port. The events channel is closed once the reader exits.
func (d *Serial) Close() error {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return nil
	}

	d.cancel()
	var err error
	if d.conn != nil {
		// Closing the port unblocks the scanner.
		if err = d.conn.Close(); err != nil {
			log.WithError(err).Warn("Error closing serial port")
		}
		d.conn = nil
	}
	d.connected = false
	d.mu.Unlock()

	<-d.done
	return err
}

// Events returns the channel of parsed events.
func (d *Serial) Events() <-chan RawEvent {
	return d.events
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// SetChannels asks the firmware to stream n channels.
func (d *Serial) SetChannels(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected || d.conn == nil {
		return fmt.Errorf("not connected")
	}
	return writeChannelsCommand(d.conn, n)
}

// Channels returns the channel count of the last received event.
func (d *Serial) Channels() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.channels
}

// writeChannelsCommand writes "C<n>\n".
func writeChannelsCommand(w io.Writer, n int) error {
	if n < 1 || n > MaxChannels {
		return fmt.Errorf("channel count must be in [1, %d], got %d", MaxChannels, n)
	}
	if _, err := fmt.Fprintf(w, "C%d\n", n); err != nil {
		return fmt.Errorf("failed to send channel command: %w", err)
	}
	return nil
}

// readEvents reads lines from src until it fails or the device is closed.
func (d *Serial) readEvents(src io.Reader) {
	defer close(d.done)
	defer close(d.events)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Panic in readEvents: %v", r)
		}
	}()

	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ev, err := ParseLine(line)
		if err != nil {
			log.WithError(err).WithField("line", line).Warn("Failed to parse line")
			continue
		}

		d.mu.Lock()
		d.channels = len(ev.Values)
		d.mu.Unlock()

		select {
		case d.events <- ev:
		case <-d.ctx.Done():
			return
		default:
			log.Warn("Events channel full, dropping event")
		}
	}
	if err := scanner.Err(); err != nil && d.ctx.Err() == nil {
		log.WithError(err).Error("Error reading from serial port")
	}
}

// ParseLine parses one line into a RawEvent.
// Format: unix_micros,v0,v1,...
// Example: 1234567890123,0.25,-1.5e-3
func ParseLine(line string) (RawEvent, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return RawEvent{}, fmt.Errorf("invalid line format: expected timestamp and at least one value, got %d fields", len(parts))
	}

	timestampMicros, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return RawEvent{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	values := make([]float64, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RawEvent{}, fmt.Errorf("invalid value %d: %w", i, err)
		}
		values[i] = v
	}

	return RawEvent{
		Timestamp: time.UnixMicro(timestampMicros),
		Values:    values,
	}, nil
}
