package config

import "time"

// DefaultCacheRules cache fingerprint-free assets briefly and images longer.
var DefaultCacheRules = []CacheRule{
	{Pattern: "images/**", Control: "public, max-age=604800"},
	{Pattern: "**/*.{css,js}", Control: "public, max-age=3600"},
	{Pattern: "**", Control: "no-cache"},
}

// DefaultConfig returns a Config with the site's standard timings.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name:    "GLY Engineering",
			BaseURL: "http://localhost:8080",
		},
		Server: ServerConfig{
			Port:           8080,
			FormRatePerSec: 1,
			FormBurst:      5,
		},
		Timing: TimingConfig{
			InitialLoad:    2000 * time.Millisecond,
			Transition:     1500 * time.Millisecond,
			SubmitDelay:    1500 * time.Millisecond,
			TypeInterval:   90 * time.Millisecond,
			DeleteInterval: 45 * time.Millisecond,
			Pause:          1400 * time.Millisecond,
			RevealDuration: 700 * time.Millisecond,
		},
		Reveal: RevealConfig{
			Threshold: 0.85,
			Offset:    40,
			Easing:    "power3.out",
		},
		Sessions: SessionsConfig{
			IdleTimeout:   30 * time.Minute,
			SweepSchedule: "@every 1m",
			MaxSessions:   10000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogJSON,
		},
		Cache: append([]CacheRule(nil), DefaultCacheRules...),
		Export: ExportConfig{
			OutputDir: "dist",
		},
	}
}
