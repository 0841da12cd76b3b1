package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"carousel/internal/eventbus"
	"carousel/internal/gesture"
	"carousel/internal/stage"
)

const (
	defaultTransitionDuration = 5 * time.Second
	defaultGlamourStyle       = "auto"
	defaultLogFile            = "carousel.log"
)

// Duration is a time.Duration stored as a string such as "5s"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	LogFile string          `toml:"log_file"`
	UI      UISettings      `toml:"ui"`
	Gesture GestureSettings `toml:"gesture"`
	Stage   StageSettings   `toml:"stage"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	// TransitionDuration is how long a pager fills before it reports completion
	TransitionDuration Duration `toml:"transition_duration"`
	GlamourStyle       string   `toml:"glamour_style"`
	ShowHelpBar        bool     `toml:"show_help_bar"`
}

// GestureSettings tunes the drag recognizer
type GestureSettings struct {
	Threshold   float64  `toml:"threshold"`
	IdleTimeout Duration `toml:"idle_timeout"`
}

// StageSettings are the defaults written onto the host element of a deck
type StageSettings struct {
	Mode       string `toml:"mode"`
	Autoscroll bool   `toml:"autoscroll"`
	Autostart  bool   `toml:"autostart"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/carousel/config.toml or the platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "carousel", "config.toml")
}

// NewConfigService creates a config service for the default path
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service with event bus support.
// An empty path selects the default location.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration from file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Unset keys keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		LogFile: defaultLogFile,
		UI: UISettings{
			TransitionDuration: Duration(defaultTransitionDuration),
			GlamourStyle:       defaultGlamourStyle,
			ShowHelpBar:        true,
		},
		Gesture: GestureSettings{
			Threshold: gesture.DefaultThreshold,
		},
		Stage: StageSettings{
			Mode:       string(stage.Wrap),
			Autoscroll: false,
			Autostart:  true,
		},
	}
}

// normalize replaces nonsensical values with defaults
func (c *Config) normalize() {
	if c.Gesture.Threshold <= 0 {
		c.Gesture.Threshold = gesture.DefaultThreshold
	}
	if c.Gesture.IdleTimeout < 0 {
		c.Gesture.IdleTimeout = 0
	}
	if c.UI.TransitionDuration <= 0 {
		c.UI.TransitionDuration = Duration(defaultTransitionDuration)
	}
	if c.UI.GlamourStyle == "" {
		c.UI.GlamourStyle = defaultGlamourStyle
	}
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
}

// GestureConfig converts the gesture settings for the recognizer
func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{
		Threshold:   c.Gesture.Threshold,
		IdleTimeout: time.Duration(c.Gesture.IdleTimeout),
	}
}

// StageConfig converts the stage settings, applying the same parsing as host attributes
func (c *Config) StageConfig() stage.Config {
	return stage.Config{
		Mode:       stage.ParseWrapPolicy(c.Stage.Mode),
		Autoscroll: c.Stage.Autoscroll,
		Autostart:  c.Stage.Autostart,
	}
}
