package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/glyengineering/glyweb/internal/handlers"
	"github.com/glyengineering/glyweb/internal/live"
	"github.com/glyengineering/glyweb/internal/metrics"
	"github.com/glyengineering/glyweb/internal/server"
	"github.com/glyengineering/glyweb/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the website",
	Long:  `Starts the HTTP server with the live channel, form handling, JSON API and /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	m := metrics.New(handlers.Routes)

	sessions, err := session.NewStore(sessionOptions(cfg, catalog, logger, m), session.StoreOptions{
		IdleTimeout:   cfg.Sessions.IdleTimeout,
		SweepSchedule: cfg.Sessions.SweepSchedule,
		MaxSessions:   cfg.Sessions.MaxSessions,
		Secure:        cfg.Server.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("creating session store: %w", err)
	}
	if err := sessions.Start(); err != nil {
		return fmt.Errorf("starting session sweeper: %w", err)
	}

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowAll:       cfg.Server.AllowAll,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
	}, logger)
	r := srv.Router()

	hub := live.New(sessions, live.Options{
		Logger:         logger,
		AllowedOrigins: liveOrigins(cfg),
	})
	hub.RegisterRoutes(r)
	m.TrackConnections(hub.Connections)

	handlers.New(handlers.Options{
		Content:   catalog,
		Sessions:  sessions,
		Metrics:   m,
		Logger:    logger,
		Timing:    pageTiming(cfg),
		Cache:     cfg.Cache,
		FormRate:  rate.Limit(cfg.Server.FormRatePerSec),
		FormBurst: cfg.Server.FormBurst,
	}).RegisterRoutes(r)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	logger.Info("glyweb starting",
		zap.String("version", Version),
		zap.Int("port", cfg.Server.Port),
		zap.String("base_url", cfg.Site.BaseURL),
		zap.Int("jobs", len(catalog.Jobs())),
		zap.Int("projects", len(catalog.Projects())),
	)

	select {
	case err := <-errc:
		sessions.Stop(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Sessions go first so live connections see their close frame.
	sessions.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
