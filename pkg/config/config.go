package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Viewer      ViewerConfig      `yaml:"viewer"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Mock        MockConfig        `yaml:"mock"`
	Logging     LoggingConfig     `yaml:"logging"`
	Snapshot    SnapshotConfig    `yaml:"snapshot"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ViewerConfig contains display parameters of the scalar viewer.
type ViewerConfig struct {
	Title            string   `yaml:"title"`
	HistoryLength    int      `yaml:"history_length"`     // Samples kept per channel
	ShowDataList     bool     `yaml:"show_data_list"`     // Show the textual readout
	MaxDisplayPoints int      `yaml:"max_display_points"` // Decimate curves above this many points
	Colors           []string `yaml:"colors"`             // Series colors as #rrggbb
}

// ChannelConfig contains the calibration of one acquisition channel.
type ChannelConfig struct {
	Label  string  `yaml:"label"`
	Gain   float64 `yaml:"gain"`
	Offset float64 `yaml:"offset"`
}

// AcquisitionConfig contains event conversion parameters.
type AcquisitionConfig struct {
	AverageEvents int             `yaml:"average_events"` // Number of events to average (0 = disabled)
	Channels      []ChannelConfig `yaml:"channels"`
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Channels           int           `yaml:"channels"`             // Number of simulated channels
	SampleRate         time.Duration `yaml:"sample_rate"`          // Time between events
	NoiseLevel         float64       `yaml:"noise_level"`          // Noise amplitude
	Period             time.Duration `yaml:"period"`               // Period of the simulated signal
	ChannelChangeEvery time.Duration `yaml:"channel_change_every"` // Add or drop a channel this often (0 = never)
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SnapshotConfig contains PNG snapshot parameters.
type SnapshotConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Dir    string `yaml:"dir"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Viewer: ViewerConfig{
			Title:            "viewer0D",
			HistoryLength:    200,
			ShowDataList:     false,
			MaxDisplayPoints: 1000,
			Colors: []string{
				"#ffffff",
				"#ff0000",
				"#00ff00",
				"#0000ff",
				"#0ecfbd",
				"#cf0ea6",
				"#cfcc0e",
			},
		},
		Acquisition: AcquisitionConfig{
			AverageEvents: 0,
		},
		Mock: MockConfig{
			Channels:           2,
			SampleRate:         50 * time.Millisecond,
			NoiseLevel:         0.05,
			Period:             10 * time.Second,
			ChannelChangeEvery: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Snapshot: SnapshotConfig{
			Width:  1024,
			Height: 600,
			Dir:    ".",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.Viewer.HistoryLength < 0 {
		return fmt.Errorf("viewer.history_length must not be negative, got %d", c.Viewer.HistoryLength)
	}
	if c.Acquisition.AverageEvents < 0 {
		return fmt.Errorf("acquisition.average_events must not be negative, got %d", c.Acquisition.AverageEvents)
	}
	if _, err := c.Viewer.Palette(); err != nil {
		return err
	}
	return nil
}

// Palette parses the configured series colors.
func (v ViewerConfig) Palette() ([]color.Color, error) {
	out := make([]color.Color, 0, len(v.Colors))
	for _, s := range v.Colors {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseColor parses a #rrggbb color.
func ParseColor(s string) (color.RGBA, error) {
	var c color.RGBA
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c.A = 255
	return c, nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Viewer.Title == "" {
		c.Viewer.Title = def.Viewer.Title
	}
	if c.Viewer.HistoryLength == 0 {
		c.Viewer.HistoryLength = def.Viewer.HistoryLength
	}
	if c.Viewer.MaxDisplayPoints == 0 {
		c.Viewer.MaxDisplayPoints = def.Viewer.MaxDisplayPoints
	}
	if len(c.Viewer.Colors) == 0 {
		c.Viewer.Colors = def.Viewer.Colors
	}

	for i := range c.Acquisition.Channels {
		if c.Acquisition.Channels[i].Gain == 0 {
			c.Acquisition.Channels[i].Gain = 1
		}
	}

	if c.Mock.Channels == 0 {
		c.Mock.Channels = def.Mock.Channels
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.Period == 0 {
		c.Mock.Period = def.Mock.Period
	}

	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}

	if c.Snapshot.Width == 0 {
		c.Snapshot.Width = def.Snapshot.Width
	}
	if c.Snapshot.Height == 0 {
		c.Snapshot.Height = def.Snapshot.Height
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = def.Snapshot.Dir
	}
}
