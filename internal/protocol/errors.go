package protocol

import "fmt"

// FramingError reports a byte stream that can no longer be delimited into
// frames: a malformed header, a declared length beyond the safety ceiling,
// or reserved flag bits. After a FramingError the stream position is
// untrustworthy and the connection must be torn down.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error: %s", e.Reason)
}

// DecodeError reports a frame whose boundaries were sound but whose payload
// could not be decoded: inflation failed, the inflated size exceeded the
// cap, or the bytes were not a JSON object. Classification of later frames
// cannot be trusted once a peer emits undecodable payloads, so this is
// fatal to the connection as well.
type DecodeError struct {
	Stage string // "inflate" or "json"
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error (%s): %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
