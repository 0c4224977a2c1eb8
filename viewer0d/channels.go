package main

import (
	"fmt"

	"fyne.io/fyne/v2/dialog"

	"github.com/itohio/scalarscope/pkg/daq"
)

// handleChannelStep adds or removes one channel of the connected device.
// The viewer rebinds its curves on the next event.
func handleChannelStep(state *appState, delta int) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	dev, ok := state.device.(daq.ChannelSetter)
	if !ok {
		return
	}

	n, err := stepChannels(dev, delta)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to change channels: %w", err), state.window)
		return
	}
	log.WithField("channels", n).Info("Changed channel count")
}

// stepChannels changes the channel count of dev by delta and returns the new count.
func stepChannels(dev daq.ChannelSetter, delta int) (int, error) {
	n := dev.Channels() + delta
	if err := dev.SetChannels(n); err != nil {
		return dev.Channels(), err
	}
	return n, nil
}
