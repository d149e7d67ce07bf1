// Package log provides structured protocol logging for the Guardian
// engine.
//
// This package defines the Logger interface and Event types for
// capturing protocol-level events: card exchanges, state-machine
// transitions and session outcomes. It is separate from operational
// logging (slog) - protocol capture provides a complete machine-readable
// trace of every session for debugging and audit.
//
// # Basic Usage
//
// Applications hand a Logger implementation to the engine:
//
//	// For development: log to console via slog
//	plog := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	plog, _ := log.NewFileLogger("/var/log/guardian/terminal.glog")
//
//	// Both at once
//	fl, _ := log.NewFileLogger("/var/log/guardian/terminal.glog")
//	plog := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
//	eng, err := engine.New(cfg, bus, store, src, plog)
//
// # Event Types
//
// Events are captured at two layers:
//   - Wire: complete card exchanges, frame bytes in and out (ExchangeEvent)
//   - Session: state transitions (StateChangeEvent) and terminal
//     outcomes (OutcomeEvent)
//
// Errors have a dedicated event type at any layer. Key material is
// never captured: exchanges carry ciphertext only, and outcomes carry
// the failure code, not the card identifier.
//
// # File Format
//
// Log files use CBOR encoding with .glog extension. The guardian-log
// CLI tool provides viewing and statistics.
package log
