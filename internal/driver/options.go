package driver

import (
	"time"

	"github.com/feathernet/ucremote/internal/protocol"
)

const (
	// DefaultKeepAlive matches the 2-second heartbeat cadence Universal
	// Control uses; consoles drop clients that stay quiet much longer.
	DefaultKeepAlive = 2 * time.Second

	// DefaultListenBuffer is the per-subscriber channel depth. A full
	// buffer drops packets for that subscriber rather than stalling the
	// read loop.
	DefaultListenBuffer = 64
)

type options struct {
	keepAlive    time.Duration
	meterPort    int
	clientName   string
	listenBuffer int
}

func defaultOptions() options {
	return options{
		keepAlive:    DefaultKeepAlive,
		clientName:   protocol.DefaultClientName,
		listenBuffer: DefaultListenBuffer,
	}
}

// Option configures a Driver.
type Option func(*options)

// WithKeepAlive sets the heartbeat interval. Zero disables the
// heartbeat entirely, which real consoles tolerate only briefly.
func WithKeepAlive(d time.Duration) Option {
	return func(o *options) { o.keepAlive = d }
}

// WithMeterPort sets the local UDP port announced in the Hello payload.
// Zero tells the console not to stream meters.
func WithMeterPort(port int) Option {
	return func(o *options) { o.meterPort = port }
}

// WithClientName sets the name the console shows for this client.
func WithClientName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.clientName = name
		}
	}
}

// WithListenBuffer sets the per-subscriber notification buffer depth.
func WithListenBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.listenBuffer = n
		}
	}
}
