// Package bridge re-publishes one console control connection to many
// WebSocket clients.
//
// The console accepts a single subscribed controller at a time, so a
// phone, a tablet, and a wall panel cannot all hold their own TCP
// session. The bridge holds the one session and fans the notification
// stream out over WebSocket instead.
//
// # Message Envelope
//
// Clients exchange JSON text frames with a small envelope:
//
//	{"type": "notification", "payload": {"param": "line/ch3/volume", "value": 0.42}}
//	{"type": "command", "payload": {"channel": 1, "mute": true}}
//	{"type": "error", "error": "console send failed: connection closed"}
//
// Commands are forwarded to the console without registering a reply
// expectation. The console's confirming echo therefore arrives as a
// regular notification and is broadcast to every client, which keeps
// all of them in sync without the bridge tracking per-client state.
//
// # Endpoints
//
//   - /ws       WebSocket endpoint for clients
//   - /healthz  JSON status: console address, connection state, client count
//
// # Usage Example
//
//	drv, err := driver.Dial(ctx, "192.168.4.15:53000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go func() { _ = drv.Run(ctx) }()
//	if err := drv.Subscribe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	srv := bridge.New(&bridge.Config{Host: "", Port: 8080, ConsoleAddr: "192.168.4.15:53000"}, drv)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Start handles SIGINT and SIGTERM:
//  1. Stop accepting new WebSocket connections
//  2. Close every connected client
//  3. Wait for the read and write pumps to drain
//  4. Flush logs
//
// # Thread Safety
//
// The client registry is guarded by a mutex and each client gets a
// dedicated write pump, so the fan-out loop never blocks on a slow
// client. A client whose queue stays full loses notifications rather
// than stalling the rest.
package bridge
