package protocol

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// MaxInflatedLen caps the size a compressed payload may inflate to.
// Universal Control uses the same 600000-byte ceiling when inflating
// state snapshots; nothing observed on the wire comes close to it.
const MaxInflatedLen = 600000

// deflatePayload compresses JSON text into the raw DEFLATE stream the
// console expects. No zlib header, no checksum trailer.
func deflatePayload(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create deflate writer: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush deflate stream: %w", err)
	}
	return buf.Bytes(), nil
}

// inflatePayload decompresses a raw DEFLATE payload, refusing to inflate
// past MaxInflatedLen.
func inflatePayload(data []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()

	out, err := io.ReadAll(io.LimitReader(fr, MaxInflatedLen+1))
	if err != nil {
		return nil, fmt.Errorf("deflate stream corrupt: %w", err)
	}
	if len(out) > MaxInflatedLen {
		return nil, fmt.Errorf("inflated payload exceeds %d byte limit", MaxInflatedLen)
	}
	return out, nil
}
