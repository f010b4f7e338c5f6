package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/layered"
)

// Config is the TOML configuration read from ~/.config/foldview/config.toml.
// Every field has a working default; the file is optional.
type Config struct {
	// Threshold is the minimum on-screen size ratio at which a region stays
	// expanded.
	Threshold float64 `toml:"threshold"`

	// Buffer is the visibility buffer in diagram units.
	Buffer float64 `toml:"buffer"`

	// Direction is the layered layout direction: right, left, down or up.
	Direction string `toml:"direction"`

	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the sidecar listen address.
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the constraint store backend.
type StoreConfig struct {
	// Backend is one of "none", "memory", "file", "redis", "mongo".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty uses
	// ~/.local/share/foldview/constraints.
	Dir string `toml:"dir"`

	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`

	// MongoURI is the mongo backend's connection URI.
	MongoURI string `toml:"mongo_uri"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Threshold: fold.DefaultThreshold,
		Buffer:    fold.DefaultBuffer,
		Direction: "right",
		Server:    ServerConfig{Addr: ":8460"},
		Store:     StoreConfig{Backend: "file"},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults without error; a
// malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "threshold %v out of range [0, 1]", c.Threshold)
	}
	if c.Direction != "" && layered.DirectionFromString(c.Direction) == layered.Undefined && c.Direction != "undefined" {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown direction %q", c.Direction)
	}
	switch c.Store.Backend {
	case "", "none", "memory", "file", "redis", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// LayoutDirection returns the configured direction as a layered.Direction.
func (c Config) LayoutDirection() layered.Direction {
	return layered.DirectionFromString(c.Direction)
}

// configDir returns the config directory using XDG standard (~/.config/foldview/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
