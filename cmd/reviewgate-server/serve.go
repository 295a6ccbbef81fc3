package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/reviewgate/internal/core/service"
	"github.com/yndnr/reviewgate/internal/infra/buildinfo"
	"github.com/yndnr/reviewgate/internal/infra/confloader"
	"github.com/yndnr/reviewgate/internal/infra/shutdown"
	"github.com/yndnr/reviewgate/internal/server/config"
	"github.com/yndnr/reviewgate/internal/server/httpserver"
	"github.com/yndnr/reviewgate/internal/server/httpserver/handler"
	"github.com/yndnr/reviewgate/internal/storage/memory"
	"github.com/yndnr/reviewgate/internal/storage/postgres"
	"github.com/yndnr/reviewgate/internal/telemetry/logger"
	"github.com/yndnr/reviewgate/internal/telemetry/metric"
)

func serve(c *cli.Context) error {
	cfg, sources, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	defer logger.Sync()

	safe := config.Sanitize(cfg)
	log.Info("starting reviewgate-server",
		"version", buildinfo.Version,
		"config_sources", sources,
		"addr", cfg.Server.HTTP.Addr,
		"db_driver", cfg.Database.Driver,
		"dsn", safe.Database.DSN,
		"session_ttl", cfg.Session.TTL,
	)

	ctx := c.Context
	metrics := metric.NewRegistry()

	// 1. Session store and info cache
	store := memory.New(memory.WithShardCount(cfg.Storage.ShardCount))
	cache := memory.NewInfoCache()
	metrics.MustRegister(metric.NewCollector(memory.Stats{Store: store, Cache: cache}))

	// 2. Collaborators
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	ctrl := service.NewSessionController(
		store,
		cache,
		postgres.NewAccountStore(db),
		postgres.NewProfileStore(db),
		postgres.NewSubmissionStore(db),
		service.WithSessionTTL(cfg.Session.TTL),
		service.WithLogger(log.With("component", "session")),
		service.WithObserver(metrics),
	)

	sweeper := memory.NewSweeper(store, cfg.Storage.SweepInterval,
		memory.WithSweepLogger(log.With("component", "sweeper")),
		memory.WithEvictionHook(func(n int) {
			metrics.SessionsEvicted(service.EvictReasonSweep, n)
		}),
	)
	sweeper.Start()

	// 3. HTTP
	proxies, err := httpserver.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		db.Close()
		sweeper.Stop()
		return fmt.Errorf("trusted proxies: %w", err)
	}
	var limiter *httpserver.LimiterRegistry
	if cfg.Server.LoginRateLimit > 0 {
		limiter = httpserver.NewLimiterRegistry(cfg.Server.LoginRateLimit, cfg.Server.LoginRateBurst)
	}
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		API:                handler.New(ctrl, log.With("component", "http"), buildinfo.Version),
		Metrics:            metrics.Handler(),
		Logger:             log,
		Observer:           metrics,
		LoginLimiter:       limiter,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TrustedProxies:     proxies,
	})
	srv := httpserver.New(httpserver.Config{
		Addr:         cfg.Server.HTTP.Addr,
		TLSCertFile:  cfg.Server.HTTP.TLSCertFile,
		TLSKeyFile:   cfg.Server.HTTP.TLSKeyFile,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	}, router)
	if err := srv.Listen(); err != nil {
		db.Close()
		sweeper.Stop()
		return fmt.Errorf("listen on %s: %w", cfg.Server.HTTP.Addr, err)
	}

	// 4. Shutdown order: config watcher, http, sweeper, database
	sd := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, shutdown.WithLogger(log))
	sd.OnShutdown("database", func(context.Context) error { return db.Close() })
	sd.OnShutdown("sweeper", func(context.Context) error {
		sweeper.Stop()
		return nil
	})
	sd.OnShutdown("http", srv.Shutdown)

	if path := c.String("config"); path != "" {
		w, err := watchLogLevel(c, path, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			sd.OnShutdown("config-watcher", func(context.Context) error { return w.Stop() })
		}
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr(), "tls", srv.TLS())
		if err := srv.Serve(); err != nil {
			log.Error("HTTP server error", "error", err)
			sd.Trigger()
		}
	}()

	if err := sd.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func openDatabase(ctx context.Context, cfg *config.ServerConfig, log logger.Logger) (*postgres.DB, error) {
	db, err := postgres.Open(ctx, postgres.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		QueryTimeout:    cfg.Database.QueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Database.EnsureSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("database schema ensured")
	}
	return db, nil
}

// watchLogLevel reloads the configuration when the file changes and applies
// a new log level. Other settings take effect on restart.
func watchLogLevel(c *cli.Context, path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.With("component", "config")))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, _, err := loadConfig(c)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		prev := logger.GetLevel()
		logger.SetLevel(cfg.Log.Level)
		if now := logger.GetLevel(); now != prev {
			log.Info("log level changed", "from", prev, "to", now)
		}
	})
	w.StartAsync()
	return w, nil
}
