// Package wire implements the compact binary encoding for task descriptors
// published on the broadcast channel.
//
// A descriptor is a single self-contained record:
//
//	offset  size  field
//	0       1     version (currently 1)
//	1       1     task type (1=FETCH, 2=RESTOCK)
//	2       8     creation timestamp, milliseconds, big-endian
//	10      2     task id length, big-endian
//	12      n     task id bytes
//	...     2     item count, big-endian
//	per item:
//	        2     item name length, big-endian
//	        n     item name bytes
//	        8     quantity, IEEE-754 float64 bits, big-endian
//
// Quantities travel as float64 so fractional (weight-based) amounts survive
// encode/decode losslessly. All integers are big-endian, matching the
// length-prefix framing used by the broadcast transport.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/dreamware/grocer/internal/catalog"
)

const version = 1

// Task type codes carried in the descriptor.
const (
	TypeFetch   uint8 = 1
	TypeRestock uint8 = 2
)

// ErrTruncated is returned when a payload ends before its declared content.
var ErrTruncated = errors.New("wire: truncated descriptor")

// Descriptor is the task record broadcast to all robots.
type Descriptor struct {
	TaskID      string
	TaskType    uint8
	Items       []catalog.ItemQty
	TimestampMs int64
}

// Encode serializes the descriptor. It fails on task ids or item names that
// exceed the 2-byte length prefix and on unknown type codes.
func Encode(d Descriptor) ([]byte, error) {
	if d.TaskType != TypeFetch && d.TaskType != TypeRestock {
		return nil, fmt.Errorf("wire: unknown task type %d", d.TaskType)
	}
	if len(d.TaskID) > math.MaxUint16 {
		return nil, fmt.Errorf("wire: task id too long (%d bytes)", len(d.TaskID))
	}
	if len(d.Items) > math.MaxUint16 {
		return nil, fmt.Errorf("wire: too many items (%d)", len(d.Items))
	}

	size := 1 + 1 + 8 + 2 + len(d.TaskID) + 2
	for _, it := range d.Items {
		if len(it.Item) > math.MaxUint16 {
			return nil, fmt.Errorf("wire: item name too long (%d bytes)", len(it.Item))
		}
		size += 2 + len(it.Item) + 8
	}

	buf := make([]byte, 0, size)
	buf = append(buf, version, d.TaskType)
	buf = binary.BigEndian.AppendUint64(buf, uint64(d.TimestampMs))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(d.TaskID)))
	buf = append(buf, d.TaskID...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(d.Items)))
	for _, it := range d.Items {
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(it.Item)))
		buf = append(buf, it.Item...)
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(it.Qty))
	}
	return buf, nil
}

// Decode parses a descriptor payload. Trailing bytes beyond the declared
// content are rejected so framing bugs fail loudly instead of silently.
func Decode(b []byte) (Descriptor, error) {
	var d Descriptor

	if len(b) < 12 {
		return d, ErrTruncated
	}
	if b[0] != version {
		return d, fmt.Errorf("wire: unsupported version %d", b[0])
	}
	d.TaskType = b[1]
	if d.TaskType != TypeFetch && d.TaskType != TypeRestock {
		return d, fmt.Errorf("wire: unknown task type %d", d.TaskType)
	}
	d.TimestampMs = int64(binary.BigEndian.Uint64(b[2:10]))

	idLen := int(binary.BigEndian.Uint16(b[10:12]))
	rest := b[12:]
	if len(rest) < idLen+2 {
		return d, ErrTruncated
	}
	d.TaskID = string(rest[:idLen])
	rest = rest[idLen:]

	count := int(binary.BigEndian.Uint16(rest[:2]))
	rest = rest[2:]

	d.Items = make([]catalog.ItemQty, 0, count)
	for i := 0; i < count; i++ {
		if len(rest) < 2 {
			return d, ErrTruncated
		}
		nameLen := int(binary.BigEndian.Uint16(rest[:2]))
		rest = rest[2:]
		if len(rest) < nameLen+8 {
			return d, ErrTruncated
		}
		name := string(rest[:nameLen])
		qty := math.Float64frombits(binary.BigEndian.Uint64(rest[nameLen : nameLen+8]))
		rest = rest[nameLen+8:]
		d.Items = append(d.Items, catalog.ItemQty{Item: name, Qty: qty})
	}

	if len(rest) != 0 {
		return d, fmt.Errorf("wire: %d trailing bytes after descriptor", len(rest))
	}
	return d, nil
}
