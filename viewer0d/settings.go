package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/itohio/scalarscope/pkg/config"
	"github.com/itohio/scalarscope/pkg/daq"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createViewerTab(state),
		createAcquisitionTab(state),
		createMockTab(state),
		createLoggingTab(state),
		createSnapshotTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// saveConfig writes the configuration back to the file it was loaded from.
func saveConfig(state *appState) {
	if err := state.cfg.Save(state.cfgPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := daq.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err != nil {
		log.WithError(err).Warn("Failed to list serial ports")
	}
	for _, port := range ports {
		displayName := port.Name
		if port.Description != "" && port.Description != port.Name {
			displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
		}
		portOptions = append(portOptions, displayName)
		portMap[displayName] = port.Name
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected // Fallback to selected text
			}
			baud := state.cfg.Serial.BaudRate
			if b, err := strconv.Atoi(baudEntry.Text); err == nil && b > 0 {
				baud = b
			}

			changed := selectedPort != "" && (selectedPort != state.cfg.Serial.Port || baud != state.cfg.Serial.BaudRate)
			wasConnected := state.device != nil && state.device.IsConnected()

			if selectedPort != "" {
				state.cfg.Serial.Port = selectedPort
			}
			state.cfg.Serial.BaudRate = baud
			saveConfig(state)

			// Reconnect with the new port settings
			if changed && wasConnected && !state.useMock {
				state.disconnect()
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createViewerTab creates the Viewer configuration tab.
func createViewerTab(state *appState) *container.TabItem {
	titleEntry := widget.NewEntry()
	titleEntry.SetText(state.viewer.Title())

	historyEntry := widget.NewEntry()
	historyEntry.SetText(strconv.Itoa(state.viewer.HistoryLength()))

	maxPointsEntry := widget.NewEntry()
	maxPointsEntry.SetText(strconv.Itoa(state.cfg.Viewer.MaxDisplayPoints))

	showList := widget.NewCheck("", nil)
	showList.SetChecked(state.cfg.Viewer.ShowDataList)

	colorsEntry := widget.NewEntry()
	colorsEntry.SetText(strings.Join(state.cfg.Viewer.Colors, ", "))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Title", Widget: titleEntry},
			{Text: "History Length (events)", Widget: historyEntry},
			{Text: "Max Display Points (restart)", Widget: maxPointsEntry},
			{Text: "Show Data List", Widget: showList},
			{Text: "Colors (restart)", Widget: colorsEntry},
		},
		OnSubmit: func() {
			if title := strings.TrimSpace(titleEntry.Text); title != "" {
				state.cfg.Viewer.Title = title
				state.viewer.SetTitle(title)
				state.window.SetTitle(title)
			}
			if n, err := parseHistoryLength(historyEntry.Text); err == nil {
				if err := state.viewer.SetHistoryLength(n); err == nil {
					state.cfg.Viewer.HistoryLength = n
					state.historyEntry.SetText(strconv.Itoa(n))
				}
			}
			if n, err := strconv.Atoi(maxPointsEntry.Text); err == nil && n > 0 {
				state.cfg.Viewer.MaxDisplayPoints = n
			}
			if showList.Checked != state.cfg.Viewer.ShowDataList {
				handleShowDataList(state)
			}
			colors := splitList(colorsEntry.Text)
			for _, c := range colors {
				if _, err := config.ParseColor(c); err != nil {
					dialog.ShowError(err, state.window)
					return
				}
			}
			if len(colors) > 0 {
				state.cfg.Viewer.Colors = colors
			}
			saveConfig(state)
			state.updateStatus()
		},
	}

	return container.NewTabItem("Viewer", form)
}

// createAcquisitionTab creates the Acquisition configuration tab.
func createAcquisitionTab(state *appState) *container.TabItem {
	averageEntry := widget.NewEntry()
	averageEntry.SetText(strconv.Itoa(state.cfg.Acquisition.AverageEvents))

	labels := make([]string, len(state.cfg.Acquisition.Channels))
	for i, ch := range state.cfg.Acquisition.Channels {
		labels[i] = ch.Label
	}
	labelsEntry := widget.NewEntry()
	labelsEntry.SetText(strings.Join(labels, ", "))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Average Events (0=disabled)", Widget: averageEntry},
			{Text: "Channel Labels", Widget: labelsEntry},
		},
		OnSubmit: func() {
			if avg, err := strconv.Atoi(averageEntry.Text); err == nil && avg >= 0 {
				state.cfg.Acquisition.AverageEvents = avg
			}

			labels := splitList(labelsEntry.Text)
			state.cfg.Acquisition.Channels = applyLabels(state.cfg.Acquisition.Channels, labels)

			// Rename the curves right away when the count matches
			if len(labels) > 0 && len(labels) == state.viewer.ChannelCount() {
				if err := state.viewer.SetLabels(labels); err != nil {
					dialog.ShowError(err, state.window)
				}
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Acquisition", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	channelsEntry := widget.NewEntry()
	channelsEntry.SetText(strconv.Itoa(state.cfg.Mock.Channels))

	sampleRateEntry := widget.NewEntry()
	sampleRateEntry.SetText(state.cfg.Mock.SampleRate.String())

	noiseLevelEntry := widget.NewEntry()
	noiseLevelEntry.SetText(fmt.Sprintf("%.6f", state.cfg.Mock.NoiseLevel))

	periodEntry := widget.NewEntry()
	periodEntry.SetText(state.cfg.Mock.Period.String())

	changeEntry := widget.NewEntry()
	changeEntry.SetText(state.cfg.Mock.ChannelChangeEvery.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Channels", Widget: channelsEntry},
			{Text: "Sample Rate", Widget: sampleRateEntry},
			{Text: "Noise Level", Widget: noiseLevelEntry},
			{Text: "Signal Period", Widget: periodEntry},
			{Text: "Channel Change Every (0=never)", Widget: changeEntry},
		},
		OnSubmit: func() {
			if n, err := strconv.Atoi(channelsEntry.Text); err == nil && n > 0 {
				state.cfg.Mock.Channels = n
			}
			if sr, err := time.ParseDuration(sampleRateEntry.Text); err == nil && sr > 0 {
				state.cfg.Mock.SampleRate = sr
			}
			if nl, err := strconv.ParseFloat(noiseLevelEntry.Text, 64); err == nil {
				state.cfg.Mock.NoiseLevel = nl
			}
			if p, err := time.ParseDuration(periodEntry.Text); err == nil {
				state.cfg.Mock.Period = p
			}
			if ce, err := time.ParseDuration(changeEntry.Text); err == nil {
				state.cfg.Mock.ChannelChangeEvery = ce
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Mock", form)
}

// createLoggingTab creates the Logging configuration tab.
func createLoggingTab(state *appState) *container.TabItem {
	levels := make([]string, 0, len(logrus.AllLevels))
	for _, l := range logrus.AllLevels {
		levels = append(levels, l.String())
	}

	levelSelect := widget.NewSelect(levels, nil)
	levelSelect.SetSelected(state.cfg.Logging.Level)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Level", Widget: levelSelect},
		},
		OnSubmit: func() {
			if levelSelect.Selected == "" {
				return
			}
			if err := setupLogging(levelSelect.Selected, false); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			state.cfg.Logging.Level = levelSelect.Selected
			saveConfig(state)
		},
	}

	return container.NewTabItem("Logging", form)
}

// createSnapshotTab creates the Snapshot configuration tab.
func createSnapshotTab(state *appState) *container.TabItem {
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(state.cfg.Snapshot.Width))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(state.cfg.Snapshot.Height))

	dirEntry := widget.NewEntry()
	dirEntry.SetText(state.cfg.Snapshot.Dir)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Width (px)", Widget: widthEntry},
			{Text: "Height (px)", Widget: heightEntry},
			{Text: "Directory", Widget: dirEntry},
		},
		OnSubmit: func() {
			if w, err := strconv.Atoi(widthEntry.Text); err == nil && w > 0 {
				state.cfg.Snapshot.Width = w
			}
			if h, err := strconv.Atoi(heightEntry.Text); err == nil && h > 0 {
				state.cfg.Snapshot.Height = h
			}
			if d := strings.TrimSpace(dirEntry.Text); d != "" {
				state.cfg.Snapshot.Dir = d
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Snapshot", form)
}

// splitList splits a comma separated list and drops empty items.
func splitList(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// applyLabels sets the label of each configured channel, adding channels
// with unit gain when there are more labels than channels. Channels past
// the last label lose theirs.
func applyLabels(channels []config.ChannelConfig, labels []string) []config.ChannelConfig {
	out := make([]config.ChannelConfig, max(len(channels), len(labels)))
	copy(out, channels)
	for i := range out {
		if i >= len(channels) {
			out[i].Gain = 1
		}
		out[i].Label = ""
		if i < len(labels) {
			out[i].Label = labels[i]
		}
	}
	return out
}
