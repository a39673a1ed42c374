package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBuildHello(t *testing.T) {
	payload := BuildHello(52703)

	if payload["id"] != IDHello {
		t.Errorf("id = %v, want %q", payload["id"], IDHello)
	}
	if payload["meterPort"] != 52703 {
		t.Errorf("meterPort = %v, want 52703", payload["meterPort"])
	}
}

func TestBuildSubscribe(t *testing.T) {
	tests := []struct {
		name       string
		clientName string
		wantName   string
	}{
		{
			name:       "explicit client name",
			clientName: "Monitor Desk",
			wantName:   "Monitor Desk",
		},
		{
			name:       "empty name falls back to default",
			clientName: "",
			wantName:   DefaultClientName,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := BuildSubscribe(tc.clientName)

			if payload["id"] != IDSubscribe {
				t.Errorf("id = %v, want %q", payload["id"], IDSubscribe)
			}
			if payload["clientName"] != tc.wantName {
				t.Errorf("clientName = %v, want %q", payload["clientName"], tc.wantName)
			}
			if payload["clientInternalName"] != ClientInternalName {
				t.Errorf("clientInternalName = %v, want %q", payload["clientInternalName"], ClientInternalName)
			}
			if payload["clientOptions"] != ClientOptions {
				t.Errorf("clientOptions = %v, want %q", payload["clientOptions"], ClientOptions)
			}
			if payload["clientEncoding"] != ClientEncoding {
				t.Errorf("clientEncoding = %v, want %d", payload["clientEncoding"], ClientEncoding)
			}

			// The subscribe payload must be requestable.
			key, ok := NewPacket(payload).CorrelationKey()
			if !ok || key != KeySubscribe {
				t.Errorf("CorrelationKey() = (%q, %v), want (%q, true)", key, ok, KeySubscribe)
			}
		})
	}
}

func TestBuildKeepAlive(t *testing.T) {
	payload := BuildKeepAlive()

	if len(payload) != 1 || payload["id"] != IDKeepAlive {
		t.Errorf("BuildKeepAlive() = %v, want single id field", payload)
	}
}

func TestBuildMute(t *testing.T) {
	tests := []struct {
		name    string
		channel int
		mute    bool
		wantKey string
	}{
		{name: "mute channel 1", channel: 1, mute: true, wantKey: "channel/1/mute"},
		{name: "unmute channel 32", channel: 32, mute: false, wantKey: "channel/32/mute"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := BuildMute(tc.channel, tc.mute)

			if payload["channel"] != tc.channel {
				t.Errorf("channel = %v, want %d", payload["channel"], tc.channel)
			}
			if payload["mute"] != tc.mute {
				t.Errorf("mute = %v, want %v", payload["mute"], tc.mute)
			}

			// Keys must derive from the as-built payload too; the
			// driver does exactly this before sending.
			key, ok := NewPacket(payload).CorrelationKey()
			if !ok || key != tc.wantKey {
				t.Errorf("CorrelationKey() = (%q, %v), want (%q, true)", key, ok, tc.wantKey)
			}
		})
	}
}

func TestBuildParamValue(t *testing.T) {
	payload := BuildParamValue("global/mixerBypass", 1.0)

	if payload["param"] != "global/mixerBypass" {
		t.Errorf("param = %v, want global/mixerBypass", payload["param"])
	}
	if payload["value"] != 1.0 {
		t.Errorf("value = %v, want 1.0", payload["value"])
	}

	key, ok := NewPacket(payload).CorrelationKey()
	if !ok || key != "param/global/mixerBypass" {
		t.Errorf("CorrelationKey() = (%q, %v), want (param/global/mixerBypass, true)", key, ok)
	}
}

// TestBuildMute_WireFormat pins the exact bytes of the canonical mute
// command: 4-byte LE length, clear flags byte, sorted-key JSON text.
func TestBuildMute_WireFormat(t *testing.T) {
	frame, err := EncodePayload(BuildMute(1, true), false)
	if err != nil {
		t.Fatalf("EncodePayload() error = %v", err)
	}

	wantText := []byte(`{"channel":1,"mute":true}`)

	if got := binary.LittleEndian.Uint32(frame[0:4]); got != uint32(len(wantText)) {
		t.Errorf("length field = %d, want %d", got, len(wantText))
	}
	if frame[4] != 0x00 {
		t.Errorf("flags = 0x%02x, want 0x00", frame[4])
	}
	if !bytes.Equal(frame[HeaderLen:], wantText) {
		t.Errorf("payload = %s, want %s", frame[HeaderLen:], wantText)
	}
}
