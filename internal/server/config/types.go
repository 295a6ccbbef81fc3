package config

import "time"

// ServerConfig is the root configuration for reviewgate-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Session  SessionSection  `koanf:"session"`
	Storage  StorageSection  `koanf:"storage"`
	Database DatabaseSection `koanf:"database"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// LoginRateLimit is the sustained login attempts per second allowed per
	// client IP. Zero disables the limit.
	LoginRateLimit float64 `koanf:"login_rate_limit"`

	// LoginRateBurst is the burst size of the per-IP login limiter.
	LoginRateBurst int `koanf:"login_rate_burst"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	// Empty disables CORS headers; "*" allows any origin.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// TrustedProxies lists proxy IPs or CIDR prefixes allowed to report the
	// client address through X-Forwarded-For or X-Real-IP. Empty means the
	// peer address is always the client.
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SessionSection configures session lifetime.
type SessionSection struct {
	// TTL is the fixed lifetime of a session created at login.
	TTL time.Duration `koanf:"ttl"`
}

// StorageSection configures the in-memory session store.
type StorageSection struct {
	// SweepInterval is the period of the expired-session sweeper.
	// Zero disables it; expiry is still enforced on every lookup.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// ShardCount is the number of map shards (power of 2).
	ShardCount int `koanf:"shard_count"`
}

// DatabaseSection configures the PostgreSQL collaborators.
type DatabaseSection struct {
	// Driver is the database/sql driver name: "pgx" or "postgres".
	Driver string `koanf:"driver"`

	// DSN is the connection string (URL or key=value form).
	DSN string `koanf:"dsn"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`

	// QueryTimeout bounds each collaborator query. Zero means no bound.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// EnsureSchema creates the tables at startup if they are missing.
	EnsureSchema bool `koanf:"ensure_schema"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
