package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/777genius/audiocycle/internal/hotkey"
	"github.com/777genius/audiocycle/internal/platform"
)

// DefaultHotkey is the accelerator bound on first run
const DefaultHotkey = "CommandOrControl+Shift+A"

// FileName is the config file name inside the config directory
const FileName = "config.json"

// Config represents the persisted settings
type Config struct {
	ExcludedDeviceIDs []string            `json:"excluded_device_ids"`
	Hotkey            *string             `json:"hotkey"` // nil = no global hotkey
	Notifications     NotificationsConfig `json:"notifications"`
	Indicator         IndicatorConfig     `json:"indicator"`
}

// NotificationsConfig controls how a successful switch is announced
type NotificationsConfig struct {
	Desktop   bool    `json:"desktop"`   // desktop notification with the new device name
	Sound     bool    `json:"sound"`     // chime on the new device
	SoundPath string  `json:"soundPath"` // chime file (empty = built-in tone)
	Volume    float64 `json:"volume"`    // 0.0-1.0, default 1.0
}

// IndicatorConfig controls the rendered position indicator
type IndicatorConfig struct {
	Path string `json:"path"` // output file, .ico or .png (empty = <config dir>/indicator.ico)
	Size int    `json:"size"` // edge length in pixels, default 32
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	hk := DefaultHotkey
	return &Config{
		ExcludedDeviceIDs: []string{},
		Hotkey:            &hk,
		Notifications: NotificationsConfig{
			Desktop: false,
			Sound:   false,
			Volume:  1.0,
		},
		Indicator: IndicatorConfig{
			Size: 32,
		},
	}
}

// Load loads configuration from a file
// If the file doesn't exist, returns default config
func Load(path string) (*Config, error) {
	if !platform.FileExists(path) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Notifications.SoundPath = platform.ExpandEnv(config.Notifications.SoundPath)
	config.Indicator.Path = platform.ExpandEnv(config.Indicator.Path)

	config.ApplyDefaults()

	return config, nil
}

// Write stores the config as indented JSON, creating the directory if needed
func Write(path string, c *Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyDefaults fills in missing fields with default values
func (c *Config) ApplyDefaults() {
	if c.ExcludedDeviceIDs == nil {
		c.ExcludedDeviceIDs = []string{}
	}
	if c.Notifications.Volume == 0 {
		c.Notifications.Volume = 1.0
	}
	if c.Indicator.Size == 0 {
		c.Indicator.Size = 32
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Hotkey != nil && *c.Hotkey != "" {
		if _, err := hotkey.Parse(*c.Hotkey); err != nil {
			return fmt.Errorf("invalid shortcut format '%s': %w", *c.Hotkey, err)
		}
	}

	if c.Notifications.Volume < 0.0 || c.Notifications.Volume > 1.0 {
		return fmt.Errorf("notification volume must be between 0.0 and 1.0 (got %.2f)", c.Notifications.Volume)
	}

	if c.Indicator.Size < 16 || c.Indicator.Size > 256 {
		return fmt.Errorf("indicator size must be between 16 and 256 (got %d)", c.Indicator.Size)
	}

	switch ext := filepath.Ext(c.Indicator.Path); ext {
	case "", ".ico", ".png":
	default:
		return fmt.Errorf("invalid indicator path %s: extension must be .ico or .png", c.Indicator.Path)
	}

	return nil
}

// HotkeyBinding returns the parsed hotkey, nil when none is configured
func (c *Config) HotkeyBinding() (*hotkey.Binding, error) {
	if c.Hotkey == nil || *c.Hotkey == "" {
		return nil, nil
	}
	b, err := hotkey.Parse(*c.Hotkey)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// IsExcluded returns true if the device id is in the exclusion list
func (c *Config) IsExcluded(id string) bool {
	for _, ex := range c.ExcludedDeviceIDs {
		if ex == id {
			return true
		}
	}
	return false
}

// IsAnnouncementEnabled returns true if a switch should be announced at all
func (c *Config) IsAnnouncementEnabled() bool {
	return c.Notifications.Desktop || c.Notifications.Sound
}
