// Package ui provides terminal output components for the ucremote CLI.
//
// This package uses Lipgloss to render styled output for the
// non-interactive commands. Unlike the interactive dashboard in the tui
// package, these components follow a "run once and exit" pattern: they
// render output and return, without taking over the terminal.
//
// # Architecture
//
// The package provides four main component types:
//
//   - Printer: Destination-aware writer that sizes boxes to the terminal
//   - Header: Command banner showing operation name and parameters
//   - Steps: Numbered step lines for sequenced operations (demo)
//   - Tables and feed lines: Device listings (scan) and frame logs (monitor)
//
// # Usage Pattern
//
//	p := ui.NewPrinter(nil) // nil = stdout
//	p.PrintHeader("Console Demo", "ucremote demo", map[string]string{
//	    "Console": "FOH at 192.168.4.15:53000",
//	})
//
//	steps := ui.NewStepPrinter(p, 4)
//	steps.Complete("Connect", "120ms")
//	steps.Complete("Subscribe", "")
//
// # Logging Integration
//
// Output here is meant for humans; logging is controlled separately via
// the UCREMOTE_LOG_LEVEL environment variable. When unset, zap is
// silent and the curated output stands alone. Set UCREMOTE_LOG_LEVEL
// to "debug", "info", "warn", or "error" to interleave logs.
package ui
