package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyDatabase(&cfg.Database); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err)
	}

	certSet, keySet := cfg.HTTP.TLSCertFile != "", cfg.HTTP.TLSKeyFile != ""
	if certSet != keySet {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}

	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 || cfg.HTTP.ShutdownTimeout < 0 {
		return errors.New("server.http timeouts must not be negative")
	}
	if cfg.LoginRateLimit < 0 {
		return errors.New("server.login_rate_limit must not be negative")
	}
	if cfg.LoginRateLimit > 0 && cfg.LoginRateBurst < 1 {
		return errors.New("server.login_rate_burst must be at least 1 when the limit is enabled")
	}
	for _, p := range cfg.TrustedProxies {
		if err := verifyProxyEntry(strings.TrimSpace(p)); err != nil {
			return fmt.Errorf("server.trusted_proxies %q: %w", p, err)
		}
	}
	return nil
}

func verifyProxyEntry(entry string) error {
	if strings.Contains(entry, "/") {
		_, err := netip.ParsePrefix(entry)
		return err
	}
	_, err := netip.ParseAddr(entry)
	return err
}

func verifySession(cfg *SessionSection) error {
	if cfg.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.SweepInterval < 0 {
		return errors.New("storage.sweep_interval must not be negative")
	}
	if cfg.ShardCount <= 0 || cfg.ShardCount&(cfg.ShardCount-1) != 0 {
		return fmt.Errorf("storage.shard_count must be a power of 2, got %d", cfg.ShardCount)
	}
	return nil
}

func verifyDatabase(cfg *DatabaseSection) error {
	switch cfg.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("database.driver must be pgx or postgres, got %q", cfg.Driver)
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.MaxOpenConns < 0 || cfg.MaxIdleConns < 0 {
		return errors.New("database pool sizes must not be negative")
	}
	if cfg.QueryTimeout < 0 {
		return errors.New("database.query_timeout must not be negative")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
