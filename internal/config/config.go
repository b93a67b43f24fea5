package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override. Nested keys are separated
// by a double underscore: GLYWEB_SERVER__PORT sets server.port.
const EnvPrefix = "GLYWEB_"

// DefaultPath is where the config is read from when --config is not given.
const DefaultPath = ".glyweb.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GLYWEB_*). A .env file in the working
// directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps GLYWEB_TIMING__SUBMIT_DELAY to timing.submit_delay.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.FormRatePerSec <= 0 {
		return fmt.Errorf("server.form_rate_per_sec must be positive")
	}
	if c.Server.FormBurst < 1 {
		return fmt.Errorf("server.form_burst must be at least 1")
	}

	timings := []struct {
		name string
		v    int64
	}{
		{"timing.initial_load", int64(c.Timing.InitialLoad)},
		{"timing.transition", int64(c.Timing.Transition)},
		{"timing.submit_delay", int64(c.Timing.SubmitDelay)},
		{"timing.type_interval", int64(c.Timing.TypeInterval)},
		{"timing.delete_interval", int64(c.Timing.DeleteInterval)},
		{"timing.pause", int64(c.Timing.Pause)},
		{"timing.reveal_duration", int64(c.Timing.RevealDuration)},
	}
	for _, t := range timings {
		if t.v <= 0 {
			return fmt.Errorf("%s must be positive", t.name)
		}
	}

	if c.Reveal.Threshold <= 0 || c.Reveal.Threshold > 1 {
		return fmt.Errorf("reveal.threshold %v must be in (0, 1]", c.Reveal.Threshold)
	}
	if c.Reveal.Easing == "" {
		return fmt.Errorf("reveal.easing is required")
	}

	if c.Sessions.IdleTimeout <= 0 {
		return fmt.Errorf("sessions.idle_timeout must be positive")
	}
	if _, err := cron.ParseStandard(c.Sessions.SweepSchedule); err != nil {
		return fmt.Errorf("invalid sessions.sweep_schedule %q: %w", c.Sessions.SweepSchedule, err)
	}
	if c.Sessions.MaxSessions < 1 {
		return fmt.Errorf("sessions.max_sessions must be at least 1")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Log.Format != LogJSON && c.Log.Format != LogConsole {
		return fmt.Errorf("invalid log.format %q: must be json or console", c.Log.Format)
	}

	for _, r := range c.Cache {
		if !doublestar.ValidatePattern(r.Pattern) {
			return fmt.Errorf("invalid cache pattern %q", r.Pattern)
		}
		if r.Control == "" {
			return fmt.Errorf("cache rule %q has no control value", r.Pattern)
		}
	}

	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	return nil
}
