package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/glyengineering/glyweb/internal/components"
	"github.com/glyengineering/glyweb/internal/config"
	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/logging"
	"github.com/glyengineering/glyweb/internal/reveal"
	"github.com/glyengineering/glyweb/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `glyweb init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log, verbose)
}

// loadContent returns the catalog override when one is configured and the
// embedded catalog otherwise.
func loadContent(cfg *config.Config) (*content.Store, error) {
	if cfg.Site.ContentFile != "" {
		return content.Load(cfg.Site.ContentFile)
	}
	return content.Default()
}

func sessionOptions(cfg *config.Config, catalog *content.Store, logger *zap.Logger, obs session.Observer) session.Options {
	return session.Options{
		Catalog:          catalog,
		Logger:           logger,
		Observer:         obs,
		TransitionDelay:  cfg.Timing.Transition,
		InitialLoadDelay: cfg.Timing.InitialLoad,
		SubmitDelay:      cfg.Timing.SubmitDelay,
		TypeInterval:     cfg.Timing.TypeInterval,
		PauseDuration:    cfg.Timing.Pause,
		DeleteInterval:   cfg.Timing.DeleteInterval,
		Reveal: reveal.Options{
			Threshold: cfg.Reveal.Threshold,
			Offset:    cfg.Reveal.Offset,
			Duration:  cfg.Timing.RevealDuration,
			Easing:    cfg.Reveal.Easing,
		},
	}
}

func pageTiming(cfg *config.Config) components.Timing {
	return components.Timing{
		InitialLoad: cfg.Timing.InitialLoad,
		Transition:  cfg.Timing.Transition,
		Reveal:      cfg.Timing.RevealDuration,
	}
}

// liveOrigins is the Origin allow list for the live channel. Nil allows any.
func liveOrigins(cfg *config.Config) []string {
	if cfg.Server.AllowAll {
		return nil
	}
	return append([]string{cfg.Site.BaseURL}, cfg.Server.AllowedOrigins...)
}
