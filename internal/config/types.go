package config

import "time"

// LogFormat selects the zap encoder.
type LogFormat string

const (
	LogJSON    LogFormat = "json"
	LogConsole LogFormat = "console"
)

// Config is the top-level glyweb configuration, corresponding to .glyweb.yml.
type Config struct {
	Site     SiteConfig     `yaml:"site" koanf:"site"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Timing   TimingConfig   `yaml:"timing" koanf:"timing"`
	Reveal   RevealConfig   `yaml:"reveal" koanf:"reveal"`
	Sessions SessionsConfig `yaml:"sessions" koanf:"sessions"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
	Cache    []CacheRule    `yaml:"cache" koanf:"cache"`
	Export   ExportConfig   `yaml:"export" koanf:"export"`
}

// SiteConfig identifies the deployment.
type SiteConfig struct {
	Name    string `yaml:"name" koanf:"name"`
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	// ContentFile replaces the embedded catalog when set.
	ContentFile string `yaml:"content_file" koanf:"content_file"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowAll       bool     `yaml:"allow_all" koanf:"allow_all"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	SecureCookies  bool     `yaml:"secure_cookies" koanf:"secure_cookies"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites them.
	TrustProxy     bool     `yaml:"trust_proxy" koanf:"trust_proxy"`
	FormRatePerSec float64  `yaml:"form_rate_per_sec" koanf:"form_rate_per_sec"`
	FormBurst      int      `yaml:"form_burst" koanf:"form_burst"`
}

// TimingConfig holds every delay the site's effects run on.
type TimingConfig struct {
	InitialLoad    time.Duration `yaml:"initial_load" koanf:"initial_load"`
	Transition     time.Duration `yaml:"transition" koanf:"transition"`
	SubmitDelay    time.Duration `yaml:"submit_delay" koanf:"submit_delay"`
	TypeInterval   time.Duration `yaml:"type_interval" koanf:"type_interval"`
	DeleteInterval time.Duration `yaml:"delete_interval" koanf:"delete_interval"`
	Pause          time.Duration `yaml:"pause" koanf:"pause"`
	RevealDuration time.Duration `yaml:"reveal_duration" koanf:"reveal_duration"`
}

// RevealConfig tunes the scroll reveal animation.
type RevealConfig struct {
	Threshold float64 `yaml:"threshold" koanf:"threshold"`
	Offset    float64 `yaml:"offset" koanf:"offset"`
	Easing    string  `yaml:"easing" koanf:"easing"`
}

// SessionsConfig controls how long idle visitor sessions live.
type SessionsConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	SweepSchedule string        `yaml:"sweep_schedule" koanf:"sweep_schedule"`
	// MaxSessions bounds concurrently open live channels.
	MaxSessions   int           `yaml:"max_sessions" koanf:"max_sessions"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}

// CacheRule sets Cache-Control for static files matching Pattern.
type CacheRule struct {
	Pattern string `yaml:"pattern" koanf:"pattern"`
	Control string `yaml:"control" koanf:"control"`
}

// ExportConfig holds static export settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
}
