// Package mixer layers console semantics over the raw connection
// driver: named control operations that wait for the device echo, and
// a live parameter view kept current from notifications.
package mixer

import (
	"context"

	"github.com/feathernet/ucremote/internal/driver"
	"github.com/feathernet/ucremote/internal/protocol"
)

type Mixer struct {
	drv   *driver.Driver
	state *State
}

// NewMixer wraps an already-connected driver. The caller keeps
// ownership of the driver's lifecycle (Run, Subscribe, Close).
func NewMixer(d *driver.Driver) *Mixer {
	return &Mixer{drv: d, state: NewState()}
}

// MuteChannel engages or releases a channel mute and waits for the
// console to confirm it.
func (m *Mixer) MuteChannel(ctx context.Context, channel int, mute bool) error {
	reply, err := m.drv.Request(ctx, protocol.BuildMute(channel, mute))
	if err != nil {
		return err
	}
	// The confirming echo is consumed by the request and never fans
	// out, so fold it into the view here.
	m.state.Apply(reply)
	return nil
}

// SetParam writes one parameter and waits for the confirming echo.
func (m *Mixer) SetParam(ctx context.Context, name string, value float64) error {
	reply, err := m.drv.Request(ctx, protocol.BuildParamValue(name, value))
	if err != nil {
		return err
	}
	m.state.Apply(reply)
	return nil
}

// SetMixerBypass flips the global processing bypass.
func (m *Mixer) SetMixerBypass(ctx context.Context, on bool) error {
	v := 0.0
	if on {
		v = 1.0
	}
	return m.SetParam(ctx, ParamMixerBypass, v)
}

// State returns the live parameter view.
func (m *Mixer) State() *State {
	return m.state
}

// Sync consumes notifications into the parameter view until ctx ends
// or the connection closes. Run it on its own goroutine.
func (m *Mixer) Sync(ctx context.Context) {
	notifs, cancel := m.drv.Listen()
	defer cancel()

	for {
		select {
		case pkt, ok := <-notifs:
			if !ok {
				return
			}
			m.state.Apply(pkt)
		case <-ctx.Done():
			return
		}
	}
}
