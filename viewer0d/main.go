package main

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/itohio/scalarscope/pkg/config"
	"github.com/itohio/scalarscope/pkg/daq"
	"github.com/itohio/scalarscope/pkg/scope"
	"github.com/itohio/scalarscope/pkg/snapshot"
	"github.com/itohio/scalarscope/pkg/viewer"
)

var log = logrus.StandardLogger()

func main() {
	var (
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		mockFlag    = flag.Bool("mock", false, "Use mocked device instead of serial port")
		historyFlag = flag.Int("history", -1, "Number of events kept per channel (overrides config)")
		verboseFlag = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Override history length if provided via command line
	if *historyFlag >= 0 {
		cfg.Viewer.HistoryLength = *historyFlag
	}

	if err := setupLogging(cfg.Logging.Level, *verboseFlag); err != nil {
		log.WithError(err).Warn("Falling back to info logging")
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.scalarscope")

	// Create main window
	window := application.NewWindow(cfg.Viewer.Title)
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	state, err := newAppState(cfg, *configFlag, window, *mockFlag)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}
	go state.drainExports()

	// Create toolbar
	toolbar := createToolbar(state)

	// Scope in the center, readout on the right, status at the bottom
	content := container.NewBorder(
		toolbar,
		state.statusLabel,
		nil,
		state.values.Object(),
		state.scopeWidget,
	)

	window.SetContent(content)
	window.SetOnClosed(state.disconnect)
	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg     *config.Config
	cfgPath string
	window  fyne.Window
	useMock bool

	scopeWidget *scope.ScopeWidget
	values      *scope.ValuesList
	viewer      *viewer.Viewer0D

	connectBtn    *widget.Button
	showListBtn   *widget.Button
	addChannelBtn *widget.Button
	delChannelBtn *widget.Button
	historyEntry  *widget.Entry
	statusLabel   *widget.Label

	device daq.Device
	chain  *acquisitionChain // Current acquisition chain (nil if not connected)
}

// newAppState wires the scope widgets into a viewer configured from cfg.
func newAppState(cfg *config.Config, cfgPath string, window fyne.Window, useMock bool) (*appState, error) {
	palette, err := cfg.Viewer.Palette()
	if err != nil {
		return nil, err
	}

	scopeWidget := scope.New(cfg.Viewer.MaxDisplayPoints)
	values := scope.NewValuesList()

	v, err := viewer.New(scopeWidget, scopeWidget, values, viewer.Options{
		Title:         cfg.Viewer.Title,
		HistoryLength: cfg.Viewer.HistoryLength,
		Colors:        palette,
	})
	if err != nil {
		return nil, err
	}
	v.ShowDataList(cfg.Viewer.ShowDataList)

	return &appState{
		cfg:         cfg,
		cfgPath:     cfgPath,
		window:      window,
		useMock:     useMock,
		scopeWidget: scopeWidget,
		values:      values,
		viewer:      v,
		statusLabel: widget.NewLabel("Disconnected"),
	}, nil
}

// createToolbar creates the application toolbar.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		state.viewer.Clear()
		state.updateStatus()
	})

	showListBtn := widget.NewButtonWithIcon("", theme.ListIcon(), func() {
		handleShowDataList(state)
	})
	state.showListBtn = showListBtn
	updateToggleButton(showListBtn, state.cfg.Viewer.ShowDataList)

	historyEntry := widget.NewEntry()
	historyEntry.SetText(strconv.Itoa(state.viewer.HistoryLength()))
	historyEntry.OnSubmitted = func(text string) {
		handleHistoryLength(state, text)
	}
	state.historyEntry = historyEntry

	snapshotBtn := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), func() {
		handleSnapshot(state)
	})

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	addChannelBtn := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		handleChannelStep(state, 1)
	})
	addChannelBtn.Disable()
	state.addChannelBtn = addChannelBtn

	delChannelBtn := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		handleChannelStep(state, -1)
	})
	delChannelBtn.Disable()
	state.delChannelBtn = delChannelBtn

	history := container.NewBorder(nil, nil, widget.NewLabel("History"), nil, historyEntry)

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, clearBtn, showListBtn, snapshotBtn, settingsBtn), // left
		container.NewHBox(delChannelBtn, addChannelBtn),                                // right
		history, // center
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		state.disconnect()
		return
	}

	if err := state.connect(); err != nil {
		dialog.ShowError(err, state.window)
	}
}

// handleShowDataList toggles the textual readout.
func handleShowDataList(state *appState) {
	state.cfg.Viewer.ShowDataList = !state.cfg.Viewer.ShowDataList
	state.viewer.ShowDataList(state.cfg.Viewer.ShowDataList)
	updateToggleButton(state.showListBtn, state.cfg.Viewer.ShowDataList)
}

// handleHistoryLength applies the history length typed into the toolbar.
func handleHistoryLength(state *appState, text string) {
	n, err := parseHistoryLength(text)
	if err == nil {
		err = state.viewer.SetHistoryLength(n)
	}
	if err != nil {
		dialog.ShowError(err, state.window)
		state.historyEntry.SetText(strconv.Itoa(state.viewer.HistoryLength()))
		return
	}
	state.cfg.Viewer.HistoryLength = n
	state.updateStatus()
}

// handleSnapshot saves what the viewer shows as a PNG image.
func handleSnapshot(state *appState) {
	palette, err := state.cfg.Viewer.Palette()
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}

	path, err := snapshot.Save(state.cfg.Snapshot.Dir, state.viewer.Snapshot(), snapshot.Options{
		Width:  state.cfg.Snapshot.Width,
		Height: state.cfg.Snapshot.Height,
		Colors: palette,
	}, time.Now())
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to save snapshot: %w", err), state.window)
		return
	}
	state.viewer.UpdateStatus("Snapshot saved to " + path)
}

// parseHistoryLength parses a non-negative number of events.
func parseHistoryLength(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid history length %q: %w", text, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("history length must not be negative, got %d", n)
	}
	return n, nil
}

// updateStatus shows the channel and event counters.
func (s *appState) updateStatus() {
	conn := "Disconnected"
	if s.device != nil && s.device.IsConnected() {
		conn = "Connected"
	}
	s.statusLabel.SetText(statusText(conn, s.viewer.ChannelCount(), s.viewer.EventCount(), s.viewer.HistoryLength()))
}

func statusText(conn string, channels, events, history int) string {
	return fmt.Sprintf("%s | channels: %d | events: %d | history: %d", conn, channels, events, history)
}

// updateToggleButton shows whether a toggle is on.
func updateToggleButton(btn *widget.Button, isOn bool) {
	if isOn {
		btn.Importance = widget.HighImportance
	} else {
		btn.Importance = widget.MediumImportance
	}
	btn.Refresh()
}
