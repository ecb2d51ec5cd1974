// Package log provides structured event logging for the device runtime.
//
// This package defines the Logger interface and Event types for capturing
// device events: idle-state transitions, sleep scheduling decisions, inbound
// on/off status, boot diagnostics, and errors. It is separate from
// operational logging (slog) - event capture provides a complete
// machine-readable trace for debugging a node that spends most of its life
// asleep.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/lpmesh/device.mlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/lpmesh/device.mlog"),
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded Event values with integer keys for
// compactness. Reader iterates such a file, optionally filtered by category,
// session, or time range.
package log
