package linestorm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the construction-time options for an Editor.
type Config struct {
	// Prompt is shown before the editable buffer.
	Prompt string `yaml:"prompt" toml:"prompt"`

	// HistoryCapacity is the maximum number of retained history entries.
	// Non-positive values select the default.
	HistoryCapacity int `yaml:"history_capacity" toml:"history_capacity"`

	// EmacsKeybindings enables the Ctrl+A / Ctrl+E aliases for Home and
	// End. Disable it when the host application binds those keys itself;
	// Home and End remain active regardless.
	EmacsKeybindings bool `yaml:"emacs_keybindings" toml:"emacs_keybindings"`

	// EchoOnSubmit leaves the prompt and submitted line on screen when
	// Enter is pressed, scrollback-style.
	EchoOnSubmit bool `yaml:"echo_on_submit" toml:"echo_on_submit"`

	// EchoOnInterrupt leaves the prompt and cancelled line on screen
	// when Ctrl+C is pressed.
	EchoOnInterrupt bool `yaml:"echo_on_interrupt" toml:"echo_on_interrupt"`
}

// DefaultConfig returns the default editor configuration.
func DefaultConfig() Config {
	return Config{
		Prompt:           "> ",
		HistoryCapacity:  1000,
		EmacsKeybindings: true,
		EchoOnSubmit:     true,
		EchoOnInterrupt:  true,
	}
}

// LoadConfig reads a configuration file in YAML or TOML format, selected by
// file extension. Settings absent from the file keep their defaults. A
// missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return cfg, nil
}
