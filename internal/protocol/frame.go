package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Frame header layout (verified against Universal Control captures)
const (
	// HeaderLen is the fixed frame header size: 4-byte little-endian
	// payload length followed by 1 flags byte.
	HeaderLen = 5

	// FlagCompressed marks the payload as a raw DEFLATE stream.
	FlagCompressed = 0x01

	// MaxPayloadLen is the on-wire payload ceiling. A header declaring
	// more than this means the stream is desynced, not that a huge frame
	// is coming; captures top out around 200 KB for full snapshots.
	MaxPayloadLen = 1 << 20
)

// Encode builds one wire frame around already-serialized JSON text.
// When compress is true the payload is deflated first and the compressed
// flag is set. The length field always reflects the bytes that actually
// follow the header.
func Encode(payload []byte, compress bool) ([]byte, error) {
	body := payload
	var flags byte
	if compress {
		var err error
		body, err = deflatePayload(payload)
		if err != nil {
			return nil, err
		}
		flags |= FlagCompressed
	}

	if len(body) > MaxPayloadLen {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(body), MaxPayloadLen)
	}

	frame := make([]byte, HeaderLen+len(body))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(body)))
	frame[4] = flags
	copy(frame[HeaderLen:], body)
	return frame, nil
}

// EncodePayload marshals a payload object to JSON and frames it.
func EncodePayload(payload map[string]any, compress bool) ([]byte, error) {
	text, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return Encode(text, compress)
}

// Decode attempts to decode one frame from the front of buf.
//
// It returns (nil, 0, nil) when buf holds less than one complete frame;
// the caller should read more bytes and try again. Any split point is
// fine, including mid-header. On success it returns the decoded Packet
// and the number of bytes consumed; the caller advances its buffer by
// that count. Frames queued back-to-back are consumed one per call.
//
// Errors are fatal to the stream: *FramingError when the header cannot
// be trusted, *DecodeError when the payload cannot be.
func Decode(buf []byte) (*Packet, int, error) {
	if len(buf) < HeaderLen {
		return nil, 0, nil
	}

	length := binary.LittleEndian.Uint32(buf[0:4])
	flags := buf[4]

	if flags&^FlagCompressed != 0 {
		return nil, 0, &FramingError{
			Reason: fmt.Sprintf("reserved flag bits set: 0x%02x", flags),
		}
	}
	if length > MaxPayloadLen {
		return nil, 0, &FramingError{
			Reason: fmt.Sprintf("declared payload length %d exceeds %d byte ceiling", length, MaxPayloadLen),
		}
	}

	total := HeaderLen + int(length)
	if len(buf) < total {
		return nil, 0, nil
	}

	body := buf[HeaderLen:total]
	compressed := flags&FlagCompressed != 0

	text := body
	if compressed {
		var err error
		text, err = inflatePayload(body)
		if err != nil {
			return nil, 0, &DecodeError{Stage: "inflate", Err: err}
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(text, &payload); err != nil {
		return nil, 0, &DecodeError{Stage: "json", Err: err}
	}

	return &Packet{Payload: payload, Compressed: compressed}, total, nil
}
