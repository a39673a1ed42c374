// Ucremote-bridge re-publishes a mixing console's control stream over
// WebSocket.
//
// It dials the console's TCP control port, subscribes, and fans every
// notification out to connected WebSocket clients as JSON envelopes.
// Client commands are forwarded to the console, whose confirming echo
// then reaches every client. This gives browser dashboards and other
// WebSocket-only tools a live view of the desk without speaking the
// binary framing themselves.
//
// Usage:
//
//	ucremote-bridge serve --console <addr> [flags]
//
// See 'ucremote-bridge serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/feathernet/ucremote/internal/bridge"
	"github.com/feathernet/ucremote/internal/driver"
	"github.com/feathernet/ucremote/internal/logging"
	"github.com/feathernet/ucremote/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ucremote-bridge",
	Short: "Console-to-WebSocket bridge",
	Long: `A standalone bridge between a mixing console's TCP control protocol
and WebSocket clients.

The bridge holds a single subscribed connection to the console and
shares it: notifications fan out to every connected client, and any
client can submit commands. Use it to feed browser dashboards or to
share one console session between several tools.

Note: for direct terminal control, use the separate 'ucremote' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	bridgeHost    string
	bridgePort    int
	bridgeConsole string
	bridgeClient  string
	logLevel      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge",
	Long: `Connect to a console and start serving WebSocket clients.

Clients connect to ws://<host>:<port>/ws and receive one JSON envelope
per console notification. A GET on /healthz reports the console
connection state and the number of connected clients.

The bridge shuts down cleanly on SIGINT/SIGTERM and whenever the
console connection is lost; run it under a supervisor to reconnect.`,
	Example: `  # Bridge a console on the default port
  ucremote-bridge serve --console 192.168.4.15

  # Serve on a specific interface and port
  ucremote-bridge serve --console 192.168.4.15:53000 --host 127.0.0.1 --port 9090

  # Verbose wire logging
  ucremote-bridge serve --console 192.168.4.15 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&bridgeHost, "host", "", "Listen hostname (empty = all interfaces)")
	serveCmd.Flags().IntVar(&bridgePort, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&bridgeConsole, "console", "", "Console address (host or host:port)")
	serveCmd.Flags().StringVar(&bridgeClient, "client-name", "UC Remote Bridge", "Name shown on the console's client list")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	_ = serveCmd.MarkFlagRequired("console")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	drv, err := driver.Dial(dialCtx, bridgeConsole, driver.WithClientName(bridgeClient))
	dialCancel()
	if err != nil {
		return fmt.Errorf("failed to connect to console %s: %w", bridgeConsole, err)
	}
	defer drv.Close()

	go func() { _ = drv.Run(ctx) }()

	subCtx, subCancel := context.WithTimeout(ctx, 10*time.Second)
	err = drv.Subscribe(subCtx)
	subCancel()
	if err != nil {
		return fmt.Errorf("subscription failed: %w", err)
	}

	config := &bridge.Config{
		Host:        bridgeHost,
		Port:        bridgePort,
		ConsoleAddr: drv.RemoteAddr().String(),
		LogLevel:    logLevel,
	}

	return bridge.New(config, drv).Start(ctx)
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ucremote-bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
