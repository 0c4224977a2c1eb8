//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 1  // ADC read interval in milliseconds (all channels)
	NUM_SAMPLES        = 20 // Number of samples to average per event

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Serial configuration
	// Line format: "unix_micros,v0,v1,...\n"
	// Example: "1234567890123456,4095,4095,4095,4095\n" = ~37 bytes max per line
	// 50 events/sec * 37 bytes/line = 1,850 bytes/sec
	// 115200 baud (8N1) provides ~6x headroom
	UART_BAUD_RATE = 115200
)

// ADC pins, one per channel. The host sees them as channels 0..len-1.
var adcPins = [...]machine.Pin{
	machine.A0,
	machine.A1,
	machine.A2,
	machine.A3,
}
