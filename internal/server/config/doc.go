// Package config provides server configuration for reviewgate.
//
// This package defines the server configuration structure and validation:
//
//   - types.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (addresses, TLS files, value ranges)
//   - sanitize.go: Log sanitization (hide sensitive values)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and overrides.
package config
