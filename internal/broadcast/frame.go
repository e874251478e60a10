package broadcast

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameSize bounds a single frame so a corrupt length prefix cannot make
// a reader allocate gigabytes.
const maxFrameSize = 1 << 20

// writeFrame sends one length-prefixed frame: a 4-byte big-endian length
// followed by the payload.
func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > maxFrameSize {
		return fmt.Errorf("broadcast: frame too large (%d bytes)", len(payload))
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(payload)))
	if _, err := w.Write(length); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFrame reads one length-prefixed frame.
func readFrame(r io.Reader) ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lengthBuf); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lengthBuf)
	if length > maxFrameSize {
		return nil, fmt.Errorf("broadcast: frame length %d exceeds limit", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
