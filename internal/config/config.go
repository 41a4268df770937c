// Package config loads meshsniff settings.
//
// Settings are layered, later layers winning: built-in defaults, an
// optional YAML file, then MESHSNIFF_* environment variables (which may be
// seeded from a dotenv file). Command-line flags are applied on top by the
// cli package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type (
	Config struct {
		Database  string `yaml:"database" env:"MESHSNIFF_DATABASE"`
		LogLevel  string `yaml:"log_level" env:"MESHSNIFF_LOG_LEVEL"`
		LogFormat string `yaml:"log_format" env:"MESHSNIFF_LOG_FORMAT"`
		Ingest    Ingest `yaml:"ingest"`
		Serve     Serve  `yaml:"serve"`
	}

	Ingest struct {
		// Input is a file of newline-delimited JSON packets, or "-" for stdin.
		Input string `yaml:"input" env:"MESHSNIFF_INPUT"`
	}

	Serve struct {
		Addr            string        `yaml:"addr" env:"MESHSNIFF_ADDR"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"MESHSNIFF_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"MESHSNIFF_WRITE_TIMEOUT"`
		IdleTimeout     time.Duration `yaml:"idle_timeout" env:"MESHSNIFF_IDLE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"MESHSNIFF_SHUTDOWN_TIMEOUT"`
	}
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:  "packets.db",
		LogLevel:  "info",
		LogFormat: FormatText,
		Ingest: Ingest{
			Input: "-",
		},
		Serve: Serve{
			Addr:            ":5000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty) and the environment. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config error: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config error: %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile sets the variables of a dotenv file in the process
// environment. Variables already set are not overridden.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config error: %s: %w", path, err)
	}
	return nil
}

// decodeYAML overlays data onto cfg. Unknown keys are rejected so a
// misspelled setting is not silently ignored.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path is empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (want %s or %s)", c.LogFormat, FormatText, FormatJSON)
	}
	if c.Ingest.Input == "" {
		return errors.New("ingest input is empty")
	}
	if c.Serve.Addr == "" {
		return errors.New("serve address is empty")
	}

	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"read_timeout", c.Serve.ReadTimeout},
		{"write_timeout", c.Serve.WriteTimeout},
		{"idle_timeout", c.Serve.IdleTimeout},
		{"shutdown_timeout", c.Serve.ShutdownTimeout},
	} {
		if d.v <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.v)
		}
	}
	return nil
}

// Level parses LogLevel (debug, info, warn or error, any case).
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return l, nil
}
