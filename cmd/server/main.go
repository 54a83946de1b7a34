package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/config"
	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/JonMunkholm/leadintake/internal/session"
	"github.com/JonMunkholm/leadintake/internal/store"
	"github.com/JonMunkholm/leadintake/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Logging.GelfAddr != "" {
		closer, err := logging.AttachGELF(cfg.Logging.GelfAddr, "leadintake", cfg.Logging.Level)
		if err != nil {
			slog.Error("failed to attach GELF output", "addr", cfg.Logging.GelfAddr, "error", err)
			os.Exit(1)
		}
		defer closer.Close()
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"api", cfg.API.BaseURL,
		"database", cfg.Database.URL != "",
		"rate_limit_enabled", cfg.Rate.Enabled,
		"timezone", cfg.Dashboard.Timezone,
	)

	// Background jobs stop when the server shuts down
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	// Preferences and import history live in Postgres when configured
	var (
		prefs   session.Store     = session.NewMemoryStore()
		history dashboard.History = dashboard.NewMemoryHistory(0)
	)
	if cfg.Database.URL != "" {
		pool, err := store.Connect(jobCtx, cfg.Database.URL, store.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := store.EnsureSchema(jobCtx, pool); err != nil {
			slog.Error("failed to prepare database schema", "error", err)
			os.Exit(1)
		}

		hist := store.NewHistory(pool)
		prefs, history = store.NewPreferences(pool), hist
		go store.RunRetention(jobCtx, hist, store.RetentionConfig{
			Retention: cfg.Database.HistoryRetention,
			Interval:  cfg.Database.HistoryPruneInterval,
		})
	} else {
		slog.Info("no database configured, keeping preferences in memory")
	}

	client, err := api.New(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout})
	if err != nil {
		slog.Error("failed to create API client", "error", err)
		os.Exit(1)
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		slog.Error("failed to create session codec", "error", err)
		os.Exit(1)
	}

	hub := dashboard.NewHub(jobCtx, dashboard.Config{
		RefreshInterval:     cfg.Dashboard.RefreshInterval,
		IdleTimeout:         cfg.Dashboard.IdleTimeout,
		BannerTTL:           cfg.Dashboard.BannerTTL,
		ProtectedAdminEmail: cfg.Session.ProtectedAdminEmail,
		MaxImports:          cfg.Dashboard.MaxImports,
		ImportMaxWait:       cfg.Dashboard.ImportMaxWait,
	}, history)
	go hub.Run(jobCtx)

	server := web.NewServer(web.Deps{
		Config:      cfg,
		Gateway:     client,
		Backend:     func(token string) dashboard.Backend { return client.WithToken(token) },
		Hub:         hub,
		Codec:       codec,
		Preferences: prefs,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop refreshers and the retention job
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for running imports to complete (with timeout)
		if active := hub.Imports().Active(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := hub.Imports().WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
