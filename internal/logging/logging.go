// Package logging builds the structured zerolog logger used by the
// multitool CLI and middleware.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var validate = validator.New()

// Config describes how to build a logger.
type Config struct {
	// Level is a zerolog level name such as "debug" or "info".
	Level string `yaml:"level" toml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	// Format selects JSON lines or human-readable console output.
	Format string `yaml:"format" toml:"format" validate:"omitempty,oneof=json console"`
	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer `yaml:"-" toml:"-"`
	// App, when set, is added to every line as "app".
	App string `yaml:"app" toml:"app"`
}

// DefaultConfig returns info-level JSON logging to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatJSON, Output: os.Stderr}
}

// New builds a logger from cfg. Empty fields fall back to DefaultConfig.
func New(cfg Config) (zerolog.Logger, error) {
	if err := validate.Struct(cfg); err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid logging config: %w", err)
	}

	def := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Output == nil {
		cfg.Output = def.Output
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	out := cfg.Output
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.App != "" {
		ctx = ctx.Str("app", cfg.App)
	}
	return ctx.Logger(), nil
}
