package protocol

// Payload constructor library for building commands to send to the console.
// Shapes verified against Universal Control session captures.

// Client identity constants sent in the Subscribe payload. The console
// logs these and uses clientEncoding to pick a payload dialect; 23117 is
// what current Universal Control builds send.
const (
	ClientInternalName = "ucremoteapp"
	ClientOptions      = "perm users levl redu rtan"
	ClientEncoding     = 23117

	// DefaultClientName is used when the caller does not set one.
	DefaultClientName = "UC Remote"
)

// BuildHello constructs the Hello payload.
//
// Hello is the first frame on a new control connection and tells the
// console which UDP port this client listens on for meter datagrams.
// The console never acknowledges it.
//
// Parameters:
//   - meterPort: local UDP port for MeterLevels datagrams (0 = no meters)
//
// Example:
//
//	payload := protocol.BuildHello(52703)
//	frame, err := protocol.EncodePayload(payload, false)
func BuildHello(meterPort int) map[string]any {
	return map[string]any{
		"id":        IDHello,
		"meterPort": meterPort,
	}
}

// BuildSubscribe constructs the Subscribe payload.
//
// Subscribing registers this client for state pushes. The console
// answers with {"id": "SubscriptionReply"} and then starts streaming
// snapshots and change notifications. Captured desktop and mobile
// clients differ only in the identity fields; the option string and
// encoding must match or the console silently ignores the request.
//
// Payload structure (from capture):
//
//	{
//	  "id": "Subscribe",
//	  "clientName": "...",            user-visible name on the console
//	  "clientInternalName": "ucremoteapp",
//	  "clientType": "go",
//	  "clientDescription": "...",
//	  "clientIdentifier": "...",
//	  "clientOptions": "perm users levl redu rtan",
//	  "clientEncoding": 23117
//	}
func BuildSubscribe(clientName string) map[string]any {
	if clientName == "" {
		clientName = DefaultClientName
	}
	return map[string]any{
		"id":                 IDSubscribe,
		"clientName":         clientName,
		"clientInternalName": ClientInternalName,
		"clientType":         "go",
		"clientDescription":  clientName,
		"clientIdentifier":   clientName,
		"clientOptions":      ClientOptions,
		"clientEncoding":     ClientEncoding,
	}
}

// BuildKeepAlive constructs the heartbeat payload. The console drops
// clients that go quiet for more than a few seconds; Universal Control
// sends one of these every 2 seconds.
func BuildKeepAlive() map[string]any {
	return map[string]any{
		"id": IDKeepAlive,
	}
}

// BuildMute constructs a channel mute command.
//
// The console acknowledges by echoing the identical object back, which
// is also what every other subscribed client receives as the change
// notification.
//
// Parameters:
//   - channel: 1-based input channel number
//   - mute: true to mute, false to unmute
//
// Example:
//
//	payload := protocol.BuildMute(1, true)
func BuildMute(channel int, mute bool) map[string]any {
	return map[string]any{
		"channel": channel,
		"mute":    mute,
	}
}

// BuildParamValue constructs a generic parameter write.
//
// Parameters are addressed by slash-separated path and carry a float
// value; booleans are 1.0/0.0. Like mutes, the console acks by echo.
// Known paths live in the mixer package.
//
// Example:
//
//	payload := protocol.BuildParamValue("global/mixerBypass", 1.0)
func BuildParamValue(name string, value float64) map[string]any {
	return map[string]any{
		"param": name,
		"value": value,
	}
}
