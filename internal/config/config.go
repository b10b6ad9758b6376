// Package config loads and watches the user configuration: server
// settings, scroll and momentum tuning, and copy-mode keybindings. The
// file lives in the XDG config directory as TOML and is created with
// defaults on first load.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full user configuration.
type Config struct {
	Server      ServerConfig        `toml:"server"`
	Session     SessionConfig       `toml:"session"`
	Scroll      ScrollConfig        `toml:"scroll"`
	Momentum    MomentumConfig      `toml:"momentum"`
	Keybindings map[string][]string `toml:"keybindings"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	MaxConnections int      `toml:"max_connections"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// SessionConfig configures the tmux session being mirrored.
type SessionConfig struct {
	Name string `toml:"name"`
	// PollIntervalMs is how often pane state is re-read when no change
	// notification is available.
	PollIntervalMs int `toml:"poll_interval_ms"`
}

// ScrollConfig tunes wheel and drag handling.
type ScrollConfig struct {
	WheelMultiplier float64 `toml:"wheel_multiplier"`
	DragThrottleMs  int     `toml:"drag_throttle_ms"`
	IndicatorFadeMs int     `toml:"indicator_fade_ms"`
}

// MomentumConfig tunes inertial touch scrolling.
type MomentumConfig struct {
	Decay        float64 `toml:"decay"`
	MinVelocity  float64 `toml:"min_velocity"`
	MaxVelocity  float64 `toml:"max_velocity"`
	SampleWindow int     `toml:"sample_window"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			MaxConnections: 32,
		},
		Session: SessionConfig{
			Name:           "main",
			PollIntervalMs: 250,
		},
		Scroll: ScrollConfig{
			WheelMultiplier: 1.0,
			DragThrottleMs:  30,
			IndicatorFadeMs: 800,
		},
		Momentum: MomentumConfig{
			Decay:        0.998,
			MinVelocity:  0.01,
			MaxVelocity:  4.0,
			SampleWindow: 5,
		},
		Keybindings: map[string][]string{
			"exit_copy_mode":  {"q", "esc"},
			"copy_selection":  {"enter", "y"},
			"clear_selection": {"ctrl+c"},
			"scroll_up":       {"up", "k"},
			"scroll_down":     {"down", "j"},
			"page_up":         {"pgup", "ctrl+u"},
			"page_down":       {"pgdown", "ctrl+d"},
			"go_to_top":       {"g", "home"},
			"go_to_bottom":    {"G", "end"},
		},
	}
}

// GetConfigPath returns the config file location, creating the parent
// directory if needed.
func GetConfigPath() (string, error) {
	dir := filepath.Join(xdg.ConfigHome, "tmuxy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadUserConfig reads the user config file, writing the defaults there
// first if it does not exist yet. Unknown keys are tolerated; missing
// sections keep their defaults.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if werr := writeConfig(path, cfg); werr != nil {
			return nil, werr
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	return cfg, nil
}

func writeConfig(path string, cfg *Config) error {
	var sb strings.Builder
	sb.WriteString("# tmuxy configuration file\n")
	sb.WriteString("# Scroll and momentum values tune the browser client feel.\n")
	sb.WriteString("# Keybindings map copy-mode actions to arrays of keys.\n\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
