// Package logging provides structured logging for the console tools.
//
// This package wraps the zap logger with convenience functions for the
// logging patterns used throughout the module. It provides both general
// logging functions and specialized functions for protocol-level logging.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame decoding, keepalives)
//   - Info: Normal operations (connections, subscriptions, state changes)
//   - Warn: Non-fatal issues (dropped notifications, registry save failures)
//   - Error: Fatal issues (startup failures, lost connections)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Console connected",
//	    zap.String("remote_addr", "192.168.4.15:53000"),
//	    zap.String("serial", "SL987654"),
//	)
//
// # Specialized Logging
//
// Connection lifecycle events:
//
//	logging.LogConnection(remoteAddr, "connected")
//	logging.LogConnection(remoteAddr, "subscribed")
//	logging.LogConnection(remoteAddr, "closed")
//
// Frame traffic, one line per frame at debug level:
//
//	logging.LogFrame("send", protocol.Describe(pkt), wireSize, compressed)
//
// Raw bytes when decoding misbehaves (hex and ASCII dumps at debug level):
//
//	logging.LogRawBytes("undecodable datagram", data)
//
// # Configuration
//
// Daemons initialize with an explicit level at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Interactive commands stay silent unless asked; they call
// InitializeFromEnv, which reads UCREMOTE_LOG_LEVEL and leaves the
// no-op logger in place when it is unset.
//
// # Output Format
//
// Logs are written to stdout in console format (human-readable):
//
//	2026-08-23T10:30:45.123+0200  INFO  Connection event
//	  remote_addr=192.168.4.15:53000
//	  event=subscribed
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
