// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Monitoring started", zap.Bool("active", true))
//	logger.Error("Probe failed", zap.Error(err))
package logging
