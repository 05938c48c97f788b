// Package config provides the run configuration and the builder that wires
// machines and drivers onto an engine.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/duet/core"
)

// Mode selects how a program is run.
type Mode string

const (
	// ModeSolo runs one machine until it recovers a frequency.
	ModeSolo Mode = "solo"

	// ModeDuet runs two machines until they deadlock or one terminates.
	ModeDuet Mode = "duet"
)

// ErrBadMode is returned for modes other than solo and duet.
var ErrBadMode = errors.New("unknown mode")

// Config is the run configuration.
type Config struct {
	Mode        Mode   `yaml:"mode" toml:"mode"`
	ProgramPath string `yaml:"program" toml:"program"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFile receives JSON logs. Empty means text logs on stderr.
	LogFile string `yaml:"log_file" toml:"log_file"`

	// MaxRounds bounds duet rounds and solo ticks. 0 means no limit.
	MaxRounds uint64 `yaml:"max_rounds" toml:"max_rounds"`

	// Dump prints the machine state tables after the run.
	Dump bool `yaml:"dump" toml:"dump"`

	// Lint prints static lint issues before the run.
	Lint bool `yaml:"lint" toml:"lint"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Mode:     ModeDuet,
		LogLevel: "warn",
	}
}

// Load reads a configuration file on top of the defaults. The format is
// chosen by extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format", path)
	}

	if err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the fields that have a closed set of values.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSolo, ModeDuet:
	default:
		return fmt.Errorf("%w: %q", ErrBadMode, c.Mode)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel maps a level name to a slog level. "trace" is core.LevelTrace.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "warn":
		return slog.LevelWarn, nil
	case "trace":
		return core.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}

	return level, nil
}
