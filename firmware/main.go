//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"
)

var (
	adcs [len(adcPins)]machine.ADC
	uart = machine.UART0

	// Number of channels streamed, changed at runtime with "C<n>\n"
	activeChannels = len(adcPins)

	// ADC averaging - running sums and count
	sums  [len(adcPins)]uint32
	count int

	// Timing
	lastADCRead time.Time

	// Serial buffer for reading commands
	serialBuffer [8]byte
	serialPos    int
)

func main() {
	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}

	// Configure ADC pins and set up ADCs with highest resolution
	for i, pin := range adcPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		adcs[i] = machine.ADC{Pin: pin}
		adcs[i].Configure(adcConfig)
	}

	// Configure UART for commands
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastADCRead = time.Now()

	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial()

		if now.Sub(lastADCRead) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			readADCs()
			lastADCRead = now
		}

		if count >= NUM_SAMPLES {
			outputEvent()
			resetAveraging()
		}

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

func readADCs() {
	for i := range activeChannels {
		sums[i] += uint32(adcs[i].Get())
	}
	count++
}

func resetAveraging() {
	for i := range sums {
		sums[i] = 0
	}
	count = 0
}

// outputEvent prints one event line: "unix_micros,v0,v1,...\n".
func outputEvent() {
	n := max(count, 1)

	print(time.Now().UnixNano() / 1000)
	for i := range activeChannels {
		print(",")
		print(uint16(sums[i] / uint32(n)))
	}
	print("\n")
}

// processSerial handles "C<n>\n", which sets the number of streamed channels.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if data == '\n' || data == '\r' {
			if serialPos == 2 && serialBuffer[0] == 'C' {
				setChannels(int(serialBuffer[1] - '0'))
			}
			serialPos = 0
			continue
		}

		// Ignore whitespace
		if data == ' ' || data == '\t' {
			continue
		}

		if serialPos < len(serialBuffer) {
			serialBuffer[serialPos] = data
			serialPos++
		}
	}
}

func setChannels(n int) {
	if n < 1 || n > len(adcPins) || n == activeChannels {
		return
	}
	activeChannels = n
	// Partial sums belong to the old channel set
	resetAveraging()
}
