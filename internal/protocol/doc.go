// Package protocol implements the StudioLive mixer remote-control wire protocol.
//
// This package handles framing, compression, and classification of the
// JSON-carrying frames exchanged with StudioLive-series mixing consoles over
// TCP. The format was reconstructed from packet captures of Universal Control
// sessions; no official documentation exists.
//
// # Frame Format
//
// Every frame on the control connection has this structure:
//   - Payload length: 4 bytes (little-endian), counts payload bytes only
//   - Flags: 1 byte; bit 0 set = payload is deflate-compressed
//   - Payload: `length` bytes of UTF-8 JSON (possibly compressed)
//
// The compressed form is a raw DEFLATE stream with no zlib or gzip wrapper.
// All flag bits other than bit 0 are unused in captures; a frame with any of
// them set is treated as stream desync and fails decoding.
//
// # Payload Vocabulary
//
// Payloads are single JSON objects. The important shapes:
//   - Control messages carry an "id" field: Subscribe, SubscriptionReply,
//     KeepAlive, Hello, StateSnapshot, MeterLevels, DeviceAnnounce
//   - Channel mute commands: {"channel": N, "mute": true|false}
//   - Generic parameter writes: {"param": "global/mixerBypass", "value": 1.0}
//
// The console acknowledges mute and parameter commands by echoing the same
// object back. Subscribe is acknowledged with SubscriptionReply. State
// snapshots usually arrive compressed; everything else is plain.
//
// # Correlation
//
// The protocol has no sequence numbers. Replies are matched to commands by
// a correlation key derived from the payload itself: a mute command and its
// echo both map to "channel/<N>/mute", a parameter write and its echo to
// "param/<name>", Subscribe and SubscriptionReply to "subscribe". Payloads
// with no derivable key are unsolicited notifications.
//
// # Usage Example - Decoding
//
//	buf = append(buf, chunk...)
//	for {
//	    pkt, n, err := protocol.Decode(buf)
//	    if err != nil {
//	        return err // connection is unrecoverable
//	    }
//	    if pkt == nil {
//	        break // need more bytes
//	    }
//	    buf = buf[n:]
//	    handle(pkt)
//	}
//
// # Usage Example - Encoding
//
//	payload := protocol.BuildMute(1, true)
//	frame, err := protocol.EncodePayload(payload, false)
//	if err != nil {
//	    return err
//	}
//	_, err = conn.Write(frame)
//
// # Error Handling
//
// The package distinguishes between:
//   - FramingError: malformed header, oversized declared length, reserved
//     flag bits; the byte stream can no longer be trusted
//   - DecodeError: payload boundaries were sound but inflation or JSON
//     parsing failed; classification of later frames cannot be trusted
//
// Both are fatal to the connection that produced them. Incomplete input is
// not an error; Decode reports "need more data" instead.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. Packet values
// are not synchronized; do not mutate a payload map shared across
// goroutines.
package protocol
