package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		payload  []byte
		compress bool
		wantErr  bool
		verify   func(t *testing.T, frame []byte)
	}{
		{
			name:     "uncompressed mute command",
			payload:  []byte(`{"channel":1,"mute":true}`),
			compress: false,
			verify: func(t *testing.T, frame []byte) {
				text := []byte(`{"channel":1,"mute":true}`)

				gotLen := binary.LittleEndian.Uint32(frame[0:4])
				if gotLen != uint32(len(text)) {
					t.Errorf("length field = %d, want %d", gotLen, len(text))
				}
				if frame[4] != 0x00 {
					t.Errorf("flags = 0x%02x, want 0x00", frame[4])
				}
				if !bytes.Equal(frame[HeaderLen:], text) {
					t.Errorf("payload = %q, want %q", frame[HeaderLen:], text)
				}
			},
		},
		{
			name:     "compressed payload sets flag bit 0",
			payload:  []byte(`{"id":"StateSnapshot","state":{}}`),
			compress: true,
			verify: func(t *testing.T, frame []byte) {
				if frame[4] != FlagCompressed {
					t.Errorf("flags = 0x%02x, want 0x%02x", frame[4], FlagCompressed)
				}

				gotLen := binary.LittleEndian.Uint32(frame[0:4])
				if int(gotLen) != len(frame)-HeaderLen {
					t.Errorf("length field = %d, want %d (compressed size)", gotLen, len(frame)-HeaderLen)
				}

				// Body must not be the plain text
				if bytes.Equal(frame[HeaderLen:], []byte(`{"id":"StateSnapshot","state":{}}`)) {
					t.Error("payload was not compressed")
				}
			},
		},
		{
			name:     "empty payload",
			payload:  []byte{},
			compress: false,
			verify: func(t *testing.T, frame []byte) {
				if len(frame) != HeaderLen {
					t.Errorf("frame size = %d, want %d", len(frame), HeaderLen)
				}
				if got := binary.LittleEndian.Uint32(frame[0:4]); got != 0 {
					t.Errorf("length field = %d, want 0", got)
				}
			},
		},
		{
			name:     "payload over wire ceiling",
			payload:  make([]byte, MaxPayloadLen+1),
			compress: false,
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := Encode(tc.payload, tc.compress)

			if (err != nil) != tc.wantErr {
				t.Errorf("Encode() error = %v, wantErr %v", err, tc.wantErr)
				return
			}

			if !tc.wantErr && tc.verify != nil {
				tc.verify(t, frame)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		verify func(t *testing.T, pkt *Packet, n int)
	}{
		{
			name: "plain mute command",
			buf:  mustFrame(`{"channel":1,"mute":true}`, false),
			verify: func(t *testing.T, pkt *Packet, n int) {
				if n != HeaderLen+25 {
					t.Errorf("consumed = %d, want %d", n, HeaderLen+25)
				}
				if pkt.Compressed {
					t.Error("Compressed should be false")
				}
				ch, ok := pkt.Int("channel")
				if !ok || ch != 1 {
					t.Errorf("channel = %d (ok=%v), want 1", ch, ok)
				}
				mute, ok := pkt.Bool("mute")
				if !ok || !mute {
					t.Errorf("mute = %v (ok=%v), want true", mute, ok)
				}
			},
		},
		{
			name: "compressed snapshot",
			buf:  mustFrame(`{"id":"StateSnapshot","state":{"line/ch1/mute":1.0}}`, true),
			verify: func(t *testing.T, pkt *Packet, n int) {
				if !pkt.Compressed {
					t.Error("Compressed should be true")
				}
				if pkt.ID() != IDStateSnapshot {
					t.Errorf("id = %q, want %q", pkt.ID(), IDStateSnapshot)
				}
				state, ok := pkt.Object("state")
				if !ok {
					t.Fatal("state object missing")
				}
				if v, ok := state["line/ch1/mute"].(float64); !ok || v != 1.0 {
					t.Errorf("line/ch1/mute = %v, want 1.0", state["line/ch1/mute"])
				}
			},
		},
		{
			name: "keepalive",
			buf:  mustFrame(`{"id":"KeepAlive"}`, false),
			verify: func(t *testing.T, pkt *Packet, n int) {
				if pkt.Kind() != KindKeepAlive {
					t.Errorf("kind = %v, want KindKeepAlive", pkt.Kind())
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pkt, n, err := Decode(tc.buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if pkt == nil {
				t.Fatal("Decode() returned nil packet for complete frame")
			}
			tc.verify(t, pkt, n)
		})
	}
}

func TestDecode_PartialFrames(t *testing.T) {
	frame := mustFrame(`{"channel":4,"mute":false}`, false)

	// Every proper prefix must report "need more data", never an error.
	for cut := 0; cut < len(frame); cut++ {
		pkt, n, err := Decode(frame[:cut])
		if err != nil {
			t.Fatalf("Decode(prefix %d/%d) error = %v, want nil", cut, len(frame), err)
		}
		if pkt != nil || n != 0 {
			t.Fatalf("Decode(prefix %d/%d) = (%v, %d), want (nil, 0)", cut, len(frame), pkt, n)
		}
	}

	// The full frame decodes.
	pkt, n, err := Decode(frame)
	if err != nil || pkt == nil {
		t.Fatalf("Decode(full frame) = (%v, %d, %v)", pkt, n, err)
	}
	if n != len(frame) {
		t.Errorf("consumed = %d, want %d", n, len(frame))
	}
}

func TestDecode_MultipleFrames(t *testing.T) {
	var buf []byte
	buf = append(buf, mustFrame(`{"channel":1,"mute":true}`, false)...)
	buf = append(buf, mustFrame(`{"id":"KeepAlive"}`, false)...)
	buf = append(buf, mustFrame(`{"param":"global/mixerBypass","value":1}`, true)...)

	var kinds []Kind
	for len(buf) > 0 {
		pkt, n, err := Decode(buf)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if pkt == nil {
			t.Fatalf("Decode() needs more data with %d bytes left", len(buf))
		}
		kinds = append(kinds, pkt.Kind())
		buf = buf[n:]
	}

	want := []Kind{KindChannelMute, KindKeepAlive, KindParamValue}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("decoded kinds = %v, want %v", kinds, want)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	payloads := []map[string]any{
		{"channel": float64(1), "mute": true},
		{"id": "Subscribe", "clientName": "UC Remote", "clientEncoding": float64(23117)},
		{"param": "line/ch16/mute", "value": float64(0)},
	}

	for _, compress := range []bool{false, true} {
		for _, payload := range payloads {
			frame, err := EncodePayload(payload, compress)
			if err != nil {
				t.Fatalf("EncodePayload(%v, %v) error = %v", payload, compress, err)
			}

			pkt, n, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if n != len(frame) {
				t.Errorf("consumed = %d, want %d", n, len(frame))
			}
			if pkt.Compressed != compress {
				t.Errorf("Compressed = %v, want %v", pkt.Compressed, compress)
			}
			if !reflect.DeepEqual(pkt.Payload, payload) {
				t.Errorf("payload = %v, want %v", pkt.Payload, payload)
			}
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name        string
		buf         []byte
		wantFraming bool
		wantDecode  bool
	}{
		{
			name: "reserved flag bits",
			buf: func() []byte {
				frame := mustFrame(`{"id":"KeepAlive"}`, false)
				frame[4] |= 0x80
				return frame
			}(),
			wantFraming: true,
		},
		{
			name: "length over ceiling",
			buf: func() []byte {
				frame := make([]byte, HeaderLen)
				binary.LittleEndian.PutUint32(frame[0:4], MaxPayloadLen+1)
				return frame
			}(),
			wantFraming: true,
		},
		{
			name: "compressed flag over garbage bytes",
			buf: func() []byte {
				body := []byte{0xde, 0xad, 0xbe, 0xef}
				frame := make([]byte, HeaderLen+len(body))
				binary.LittleEndian.PutUint32(frame[0:4], uint32(len(body)))
				frame[4] = FlagCompressed
				copy(frame[HeaderLen:], body)
				return frame
			}(),
			wantDecode: true,
		},
		{
			name: "payload is not JSON",
			buf: func() []byte {
				frame, _ := Encode([]byte("not json at all"), false)
				return frame
			}(),
			wantDecode: true,
		},
		{
			name: "payload is a JSON array, not an object",
			buf: func() []byte {
				frame, _ := Encode([]byte(`[1,2,3]`), false)
				return frame
			}(),
			wantDecode: true,
		},
		{
			name: "zero-length payload",
			buf: func() []byte {
				frame, _ := Encode(nil, false)
				return frame
			}(),
			wantDecode: true,
		},
		{
			name: "inflates past the cap",
			buf: func() []byte {
				// Highly repetitive text deflates to a few KB but must
				// refuse to inflate past MaxInflatedLen.
				huge := []byte(`{"id":"StateSnapshot","pad":"` + strings.Repeat("a", 2*MaxInflatedLen) + `"}`)
				frame, err := Encode(huge, true)
				if err != nil {
					panic(err)
				}
				return frame
			}(),
			wantDecode: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pkt, n, err := Decode(tc.buf)
			if err == nil {
				t.Fatalf("Decode() = (%v, %d, nil), want error", pkt, n)
			}

			var framingErr *FramingError
			var decodeErr *DecodeError
			if got := errors.As(err, &framingErr); got != tc.wantFraming {
				t.Errorf("errors.As(FramingError) = %v, want %v (err: %v)", got, tc.wantFraming, err)
			}
			if got := errors.As(err, &decodeErr); got != tc.wantDecode {
				t.Errorf("errors.As(DecodeError) = %v, want %v (err: %v)", got, tc.wantDecode, err)
			}
		})
	}
}

// mustFrame builds a frame from raw JSON text, panicking on failure.
// Test-table helper; payload must be valid by construction.
func mustFrame(text string, compress bool) []byte {
	frame, err := Encode([]byte(text), compress)
	if err != nil {
		panic(err)
	}
	return frame
}

func BenchmarkEncode(b *testing.B) {
	text := []byte(`{"channel":12,"mute":true}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encode(text, false)
	}
}

func BenchmarkDecode(b *testing.B) {
	frame := mustFrame(`{"channel":12,"mute":true}`, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(frame)
	}
}

func BenchmarkDecode_Compressed(b *testing.B) {
	frame := mustFrame(`{"id":"StateSnapshot","state":{"line/ch1/mute":1,"line/ch2/mute":0,"global/mixerBypass":0}}`, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(frame)
	}
}
