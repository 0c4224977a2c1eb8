package daq

// Device defines the interface for acquisition devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Events() <-chan RawEvent
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// ChannelSetter is implemented by devices whose channel count can be changed at runtime.
type ChannelSetter interface {
	Channels() int
	SetChannels(n int) error
}

var (
	_ ChannelSetter = (*Serial)(nil)
	_ ChannelSetter = (*Mock)(nil)
)
