package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Timing.Transition != 1500*time.Millisecond {
		t.Errorf("expected transition 1500ms, got %v", cfg.Timing.Transition)
	}
	if cfg.Timing.InitialLoad != 2000*time.Millisecond {
		t.Errorf("expected initial load 2000ms, got %v", cfg.Timing.InitialLoad)
	}
	if cfg.Timing.SubmitDelay != 1500*time.Millisecond {
		t.Errorf("expected submit delay 1500ms, got %v", cfg.Timing.SubmitDelay)
	}
	if cfg.Reveal.Threshold != 0.85 {
		t.Errorf("expected reveal threshold 0.85, got %v", cfg.Reveal.Threshold)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.TrustProxy {
		t.Error("proxy headers must not be trusted by default")
	}
	if cfg.Sessions.MaxSessions != 10000 {
		t.Errorf("expected 10000 max sessions, got %d", cfg.Sessions.MaxSessions)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.glyweb.yml")

	original := DefaultConfig()
	original.Server.Port = 9090
	original.Server.AllowedOrigins = []string{"https://gly.example", "https://www.gly.example"}
	original.Timing.SubmitDelay = 250 * time.Millisecond
	original.Log.Format = LogConsole
	original.Cache = []CacheRule{{Pattern: "**", Control: "no-store"}}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Timing.SubmitDelay != 250*time.Millisecond {
		t.Errorf("submit_delay: got %v", loaded.Timing.SubmitDelay)
	}
	if loaded.Log.Format != LogConsole {
		t.Errorf("log format: got %q", loaded.Log.Format)
	}
	if len(loaded.Server.AllowedOrigins) != 2 || loaded.Server.AllowedOrigins[1] != "https://www.gly.example" {
		t.Errorf("allowed_origins: got %v", loaded.Server.AllowedOrigins)
	}
	if len(loaded.Cache) != 1 || loaded.Cache[0].Control != "no-store" {
		t.Errorf("cache: got %+v", loaded.Cache)
	}
}

func TestLoadDurationsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glyweb.yml")
	data := "timing:\n  transition: 750ms\n  pause: 2s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timing.Transition != 750*time.Millisecond || cfg.Timing.Pause != 2*time.Second {
		t.Errorf("timing = %+v", cfg.Timing)
	}
	if cfg.Timing.InitialLoad != 2*time.Second {
		t.Errorf("unset timing lost its default: %v", cfg.Timing.InitialLoad)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("GLYWEB_SERVER__PORT", "3000")
	t.Setenv("GLYWEB_TIMING__SUBMIT_DELAY", "3s")
	t.Setenv("GLYWEB_LOG__LEVEL", "debug")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 3000 {
		t.Errorf("env override failed: port %d", loaded.Server.Port)
	}
	if loaded.Timing.SubmitDelay != 3*time.Second {
		t.Errorf("env override failed: submit_delay %v", loaded.Timing.SubmitDelay)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("env override failed: log level %q", loaded.Log.Level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GLYWEB_DOTENV_SAMPLE=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GLYWEB_DOTENV_SAMPLE", "")
	os.Unsetenv("GLYWEB_DOTENV_SAMPLE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("GLYWEB_DOTENV_SAMPLE"); got != "from-file" {
		t.Errorf("GLYWEB_DOTENV_SAMPLE = %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero rate", func(c *Config) { c.Server.FormRatePerSec = 0 }},
		{"zero burst", func(c *Config) { c.Server.FormBurst = 0 }},
		{"zero transition", func(c *Config) { c.Timing.Transition = 0 }},
		{"negative submit delay", func(c *Config) { c.Timing.SubmitDelay = -time.Second }},
		{"threshold above one", func(c *Config) { c.Reveal.Threshold = 1.5 }},
		{"empty easing", func(c *Config) { c.Reveal.Easing = "" }},
		{"bad sweep schedule", func(c *Config) { c.Sessions.SweepSchedule = "whenever" }},
		{"zero max sessions", func(c *Config) { c.Sessions.MaxSessions = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad cache pattern", func(c *Config) { c.Cache = []CacheRule{{Pattern: "[", Control: "no-cache"}} }},
		{"empty cache control", func(c *Config) { c.Cache = []CacheRule{{Pattern: "**"}} }},
		{"empty output dir", func(c *Config) { c.Export.OutputDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"GLYWEB_SERVER__PORT":         "server.port",
		"GLYWEB_TIMING__SUBMIT_DELAY": "timing.submit_delay",
		"GLYWEB_SITE__CONTENT_FILE":   "site.content_file",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"https://gly.example", []string{"https://gly.example"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestValidatePort(t *testing.T) {
	for _, ok := range []string{"1", "8080", "65535"} {
		if err := validatePort(ok); err != nil {
			t.Errorf("validatePort(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "abc", "70000"} {
		if err := validatePort(bad); err == nil {
			t.Errorf("validatePort(%q) should fail", bad)
		}
	}
}
