// Package logging provides structured logging for the adcon console.
//
// This package wraps the zap logger with convenience functions for the
// logging patterns used throughout the console and CLI commands.
//
// # Configuration
//
// Logging is controlled via the ADCON_LOG_LEVEL environment variable. When
// unset or empty, zap output is silent so the interactive console and the
// curated command output stay clean. Set ADCON_LOG_LEVEL to "debug",
// "info", "warn", or "error" to enable output on stderr.
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Search completed",
//	    zap.String("domain", "corp"),
//	    zap.Int("results", 42),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
