// Package config defines service configuration and its loading.
//
// Conventions:
// - New(ctx) returns the defaults; Load(ctx) layers file and env on top.
// - Keys are flat and match the koanf tags below.
// - Errors wrap this package's sentinels.
package config

import (
	"context"
	"fmt"

	"github.com/okian/lightshow/internal/domain/lighting"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// LogFile redirects logs away from stdout, which the preview owns.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the live event queue.
	EventQueueSize int `koanf:"queue_size"`

	// DedupeSize sets how many live event IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// FrameRate is how many player frames run per second.
	FrameRate int `koanf:"frame_rate"`

	// BPM is the metronome tempo.
	BPM float64 `koanf:"bpm"`

	// RigPath points to a YAML rig layout; empty uses the built-in rig.
	RigPath string `koanf:"rig_path"`

	// BeatmapPath points to a v2 beatmap preloaded into the timeline.
	BeatmapPath string `koanf:"beatmap_path"`

	EmulateLegacyColors      bool `koanf:"emulate_legacy_colors"`
	EmulateAdvancedTargeting bool `koanf:"emulate_advanced_targeting"`

	// Palette entries as hex colors.
	PaletteBlue      string `koanf:"palette_blue"`
	PaletteRed       string `koanf:"palette_red"`
	PaletteBlueBoost string `koanf:"palette_blue_boost"`
	PaletteRedBoost  string `koanf:"palette_red_boost"`

	MQTTEnabled     bool   `koanf:"mqtt_enabled"`
	MQTTHost        string `koanf:"mqtt_host"`
	MQTTPort        int    `koanf:"mqtt_port"`
	MQTTClientID    string `koanf:"mqtt_client_id"`
	MQTTTopicPrefix string `koanf:"mqtt_topic_prefix"`
	MQTTQoS         int    `koanf:"mqtt_qos"`

	InfluxEnabled bool   `koanf:"influx_enabled"`
	InfluxURL     string `koanf:"influx_url"`
	InfluxToken   string `koanf:"influx_token"`
	InfluxOrg     string `koanf:"influx_org"`
	InfluxBucket  string `koanf:"influx_bucket"`

	JournalEnabled bool   `koanf:"journal_enabled"`
	JournalPath    string `koanf:"journal_path"`

	PreviewEnabled bool `koanf:"preview_enabled"`
}

// New returns the default configuration.
func New(_ context.Context) *Config {
	p := lighting.DefaultPalette()
	return &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Addr:                     ":9080",
		EventQueueSize:           4096,
		DedupeSize:               50_000,
		FrameRate:                60,
		BPM:                      120,
		EmulateLegacyColors:      true,
		EmulateAdvancedTargeting: true,
		PaletteBlue:              p.Blue.Hex(),
		PaletteRed:               p.Red.Hex(),
		PaletteBlueBoost:         p.BlueBoost.Hex(),
		PaletteRedBoost:          p.RedBoost.Hex(),
		MQTTHost:                 "localhost",
		MQTTPort:                 1883,
		MQTTClientID:             "lightshow",
		MQTTTopicPrefix:          "lightshow",
		InfluxURL:                "http://localhost:8086",
		InfluxOrg:                "lightshow",
		InfluxBucket:             "lightshow",
		JournalPath:              "data/journal.db",
	}
}

// Palette parses the configured palette.
func (c *Config) Palette() (lighting.Palette, error) {
	p, err := lighting.ParsePalette(c.PaletteBlue, c.PaletteRed, c.PaletteBlueBoost, c.PaletteRedBoost)
	if err != nil {
		return lighting.Palette{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Emulation returns the engine's emulation flags.
func (c *Config) Emulation() lighting.Emulation {
	return lighting.Emulation{
		LegacyColors:      c.EmulateLegacyColors,
		AdvancedTargeting: c.EmulateAdvancedTargeting,
	}
}

// MaxFrameRate bounds frame_rate; the player cannot tick faster than this.
const MaxFrameRate = 1000

// Validate checks values no component can run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FrameRate <= 0 || c.FrameRate > MaxFrameRate:
		return fmt.Errorf("%w: frame_rate must be in 1..%d, got %d", ErrInvalidConfig, MaxFrameRate, c.FrameRate)
	case c.BPM <= 0:
		return fmt.Errorf("%w: bpm must be positive, got %v", ErrInvalidConfig, c.BPM)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.EventQueueSize)
	case c.MQTTQoS < 0 || c.MQTTQoS > 2:
		return fmt.Errorf("%w: mqtt_qos must be 0, 1 or 2, got %d", ErrInvalidConfig, c.MQTTQoS)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}
