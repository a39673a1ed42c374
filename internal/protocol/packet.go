package protocol

import (
	"encoding/json"
	"fmt"
)

// Packet is one decoded (or to-be-encoded) protocol frame payload.
// Payload holds the JSON object as decoded by encoding/json, so numbers
// are float64 and nested objects are map[string]any.
type Packet struct {
	Payload    map[string]any
	Compressed bool // arrived compressed, or should be sent compressed
}

// NewPacket wraps a payload object in an uncompressed Packet.
func NewPacket(payload map[string]any) *Packet {
	return &Packet{Payload: payload}
}

// ID returns the payload "id" field, or "" when absent or not a string.
// Mute and parameter payloads have no id; control messages do.
func (p *Packet) ID() string {
	if s, ok := p.Payload["id"].(string); ok {
		return s
	}
	return ""
}

// Str returns a string payload field.
func (p *Packet) Str(key string) (string, bool) {
	s, ok := p.Payload[key].(string)
	return s, ok
}

// Float returns a numeric payload field. Decoded payloads always hold
// float64 (the encoding/json default); locally built payloads may hold
// Go ints, so both are accepted.
func (p *Packet) Float(key string) (float64, bool) {
	switch n := p.Payload[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Int returns a numeric payload field truncated to an integer.
func (p *Packet) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns a boolean payload field.
func (p *Packet) Bool(key string) (bool, bool) {
	b, ok := p.Payload[key].(bool)
	return b, ok
}

// Object returns a nested object payload field.
func (p *Packet) Object(key string) (map[string]any, bool) {
	m, ok := p.Payload[key].(map[string]any)
	return m, ok
}

// Floats returns a numeric array payload field. Any non-numeric
// element fails the whole lookup.
func (p *Packet) Floats(key string) ([]float64, bool) {
	raw, ok := p.Payload[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			out = append(out, n)
		case int:
			out = append(out, float64(n))
		default:
			return nil, false
		}
	}
	return out, true
}

// Marshal serializes the payload to JSON text (no framing).
func (p *Packet) Marshal() ([]byte, error) {
	text, err := json.Marshal(p.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return text, nil
}

// Encode frames the payload for the wire, honoring the Compressed flag.
func (p *Packet) Encode() ([]byte, error) {
	text, err := p.Marshal()
	if err != nil {
		return nil, err
	}
	return Encode(text, p.Compressed)
}

// String returns a debug representation of the packet.
func (p *Packet) String() string {
	id := p.ID()
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("Packet{id=%s, kind=%s, fields=%d, compressed=%v}",
		id, p.Kind(), len(p.Payload), p.Compressed)
}
