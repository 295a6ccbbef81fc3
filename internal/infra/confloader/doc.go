// Package confloader provides the configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf that
// merges several sources into a typed struct, and a file watcher used to
// apply configuration changes at runtime.
//
// Priority (highest to lowest):
//
//  1. Explicit overrides (WithOverrides)
//  2. Environment variables (REVIEWGATE_ prefix, optionally seeded from a .env file)
//  3. Configuration file (YAML)
//  4. Values already present in the target struct
//
// Environment variable names use a double underscore between levels:
// REVIEWGATE_STORAGE__SWEEP_INTERVAL=5m sets storage.sweep_interval.
package confloader
