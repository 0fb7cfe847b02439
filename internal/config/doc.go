// Package config loads application configuration from environment variables
// with sane defaults, using kelseyhightower/envconfig.
//
// All variables are prefixed SOUNDBREAK_, e.g. SOUNDBREAK_PORT,
// SOUNDBREAK_MIN_CHECK_INTERVAL, SOUNDBREAK_LOG_LEVEL.
//
// This covers process-level settings only; the monitored process-name list
// lives in the persisted store (see internal/store) and is mutable at runtime.
package config
