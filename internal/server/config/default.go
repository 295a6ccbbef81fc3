package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultLoginRateLimit  = 5.0
	DefaultLoginRateBurst  = 10

	DefaultSessionTTL = 30 * 24 * time.Hour

	DefaultSweepInterval = time.Duration(0)
	DefaultShardCount    = 16

	DefaultDBDriver        = "pgx"
	DefaultMaxOpenConns    = 20
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultQueryTimeout    = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
			LoginRateLimit: DefaultLoginRateLimit,
			LoginRateBurst: DefaultLoginRateBurst,
		},
		Session: SessionSection{
			TTL: DefaultSessionTTL,
		},
		Storage: StorageSection{
			SweepInterval: DefaultSweepInterval,
			ShardCount:    DefaultShardCount,
		},
		Database: DatabaseSection{
			Driver:          DefaultDBDriver,
			MaxOpenConns:    DefaultMaxOpenConns,
			MaxIdleConns:    DefaultMaxIdleConns,
			ConnMaxLifetime: DefaultConnMaxLifetime,
			QueryTimeout:    DefaultQueryTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
