package config

import (
	"net/url"
	"regexp"
	"strings"
)

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Server.CORSAllowedOrigins = append([]string(nil), cfg.Server.CORSAllowedOrigins...)
	sanitized.Server.TrustedProxies = append([]string(nil), cfg.Server.TrustedProxies...)

	if sanitized.Database.DSN != "" {
		sanitized.Database.DSN = maskDSN(sanitized.Database.DSN)
	}

	return &sanitized
}

const maskedPassword = "xxxxx"

var dsnPasswordPattern = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// maskDSN hides the password of a URL or key=value connection string.
func maskDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return maskedPassword
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), maskedPassword)
		}
		return u.String()
	}
	return dsnPasswordPattern.ReplaceAllString(dsn, "${1}"+maskedPassword)
}
