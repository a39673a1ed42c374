package mixer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/feathernet/ucremote/internal/driver"
	"github.com/feathernet/ucremote/internal/protocol"
)

// echoConsole plays the device's control side: every decodable frame
// is echoed straight back. Runs until the pipe closes.
func echoConsole(conn net.Conn) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				pkt, consumed, derr := protocol.Decode(buf)
				if derr != nil || pkt == nil {
					break
				}
				buf = buf[consumed:]
				if frame, eerr := pkt.Encode(); eerr == nil {
					if _, werr := conn.Write(frame); werr != nil {
						return
					}
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func newTestMixer(t *testing.T) (*Mixer, net.Conn) {
	t.Helper()

	clientConn, serverConn := net.Pipe()
	d := driver.New(clientConn, driver.WithKeepAlive(0))
	go d.Run(context.Background())
	go echoConsole(serverConn)

	t.Cleanup(func() {
		d.Close()
		serverConn.Close()
	})
	return NewMixer(d), serverConn
}

func TestMixer_MuteChannel(t *testing.T) {
	m, _ := newTestMixer(t)
	ctx := context.Background()

	if err := m.MuteChannel(ctx, 3, true); err != nil {
		t.Fatalf("MuteChannel(3, true) error = %v", err)
	}
	if muted, ok := m.State().ChannelMuted(3); !ok || !muted {
		t.Errorf("ChannelMuted(3) = %v, %v, want true, true", muted, ok)
	}

	if err := m.MuteChannel(ctx, 3, false); err != nil {
		t.Fatalf("MuteChannel(3, false) error = %v", err)
	}
	if muted, _ := m.State().ChannelMuted(3); muted {
		t.Error("ChannelMuted(3) = true after unmute, want false")
	}
}

func TestMixer_SetParam(t *testing.T) {
	m, _ := newTestMixer(t)

	if err := m.SetParam(context.Background(), "line/ch2/volume", 0.5); err != nil {
		t.Fatalf("SetParam() error = %v", err)
	}
	if v, ok := m.State().Param("line/ch2/volume"); !ok || v != 0.5 {
		t.Errorf("Param(line/ch2/volume) = %g, %v, want 0.5, true", v, ok)
	}
}

func TestMixer_SetMixerBypass(t *testing.T) {
	m, _ := newTestMixer(t)
	ctx := context.Background()

	if err := m.SetMixerBypass(ctx, true); err != nil {
		t.Fatalf("SetMixerBypass(true) error = %v", err)
	}
	if on, ok := m.State().MixerBypass(); !ok || !on {
		t.Errorf("MixerBypass() = %v, %v, want true, true", on, ok)
	}

	if err := m.SetMixerBypass(ctx, false); err != nil {
		t.Fatalf("SetMixerBypass(false) error = %v", err)
	}
	if on, _ := m.State().MixerBypass(); on {
		t.Error("MixerBypass() = true after disabling, want false")
	}
}

func TestMixer_Sync(t *testing.T) {
	m, conn := newTestMixer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Sync(ctx)

	// An unsolicited compressed snapshot must land in the view.
	frame, err := protocol.EncodePayload(map[string]any{
		"id":    "StateSnapshot",
		"state": map[string]any{"global/mixerBypass": float64(1), "line/ch5/mute": float64(1)},
	}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write(frame); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if on, ok := m.State().MixerBypass(); ok && on {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("snapshot never reached the state view")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if muted, _ := m.State().ChannelMuted(5); !muted {
		t.Error("ChannelMuted(5) = false, want true from snapshot")
	}
}
