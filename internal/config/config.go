// Package config handles reading and writing the handpreview YAML
// config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure of the config file.
type Config struct {
	Server         string         `yaml:"server"`
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	TargetFPS      int            `yaml:"target_fps"`
	SmoothWindow   int            `yaml:"smooth_window"`
	Epsilon        float64        `yaml:"epsilon"`
	Render         RenderConfig   `yaml:"render"`
	Playback       PlaybackConfig `yaml:"playback"`
}

// RenderConfig controls PNG frame export.
type RenderConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	OutputDir string `yaml:"output_dir"`
}

// PlaybackConfig controls in-terminal playback.
type PlaybackConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ServerEnv overrides the configured server URL when set.
const ServerEnv = "HANDPREVIEW_SERVER"

const configFile = "handpreview.yaml"

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:         "http://localhost:8000",
		TimeoutSeconds: 120,
		TargetFPS:      0, // let the backend choose
		SmoothWindow:   1, // off; the backend already smooths
		Epsilon:        0, // solver default
		Render: RenderConfig{
			Width:     640,
			Height:    480,
			OutputDir: "preview_frames",
		},
		Playback: PlaybackConfig{
			Width:  72,
			Height: 28,
		},
	}
}

// Read loads the config file from dir, falling back to defaults when
// the file does not exist. The ServerEnv variable, when set, overrides
// the server URL from either source.
func Read(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if server := os.Getenv(ServerEnv); server != "" {
		cfg.Server = server
	}
	return cfg, nil
}

// Write saves cfg to the config file in dir.
func Write(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
