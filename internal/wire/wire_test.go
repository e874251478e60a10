package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/dreamware/grocer/internal/catalog"
)

// TestRoundTrip verifies encode/decode preserves every field
func TestRoundTrip(t *testing.T) {
	now := time.Now().UnixMilli()

	tests := []struct {
		name string
		desc Descriptor
	}{
		{
			name: "fetch with items",
			desc: Descriptor{
				TaskID:      "fetch-12",
				TaskType:    TypeFetch,
				TimestampMs: now,
				Items: []catalog.ItemQty{
					{Item: "bagels", Qty: 2},
					{Item: "milk", Qty: 1},
				},
			},
		},
		{
			name: "restock with fractional quantity",
			desc: Descriptor{
				TaskID:      "restock-13",
				TaskType:    TypeRestock,
				TimestampMs: now,
				Items:       []catalog.ItemQty{{Item: "tomatoes", Qty: 1.75}},
			},
		},
		{
			name: "empty item list",
			desc: Descriptor{
				TaskID:      "fetch-1",
				TaskType:    TypeFetch,
				TimestampMs: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Encode(tt.desc)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			got, err := Decode(payload)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if got.TaskID != tt.desc.TaskID {
				t.Errorf("TaskID = %q, want %q", got.TaskID, tt.desc.TaskID)
			}
			if got.TaskType != tt.desc.TaskType {
				t.Errorf("TaskType = %d, want %d", got.TaskType, tt.desc.TaskType)
			}
			if got.TimestampMs != tt.desc.TimestampMs {
				t.Errorf("TimestampMs = %d, want %d", got.TimestampMs, tt.desc.TimestampMs)
			}
			if len(got.Items) != len(tt.desc.Items) {
				t.Fatalf("Items len = %d, want %d", len(got.Items), len(tt.desc.Items))
			}
			for i, it := range tt.desc.Items {
				if got.Items[i] != it {
					t.Errorf("Items[%d] = %+v, want %+v", i, got.Items[i], it)
				}
			}
		})
	}
}

func TestEncodeRejectsUnknownType(t *testing.T) {
	_, err := Encode(Descriptor{TaskID: "x", TaskType: 9})
	if err == nil {
		t.Error("Expected error for unknown task type")
	}
}

// TestDecodeErrors verifies malformed payloads fail cleanly
func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(Descriptor{
		TaskID:   "fetch-5",
		TaskType: TypeFetch,
		Items:    []catalog.ItemQty{{Item: "eggs", Qty: 12}},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	t.Run("empty payload", func(t *testing.T) {
		if _, err := Decode(nil); !errors.Is(err, ErrTruncated) {
			t.Errorf("Expected ErrTruncated, got %v", err)
		}
	})

	t.Run("truncated mid-item", func(t *testing.T) {
		if _, err := Decode(valid[:len(valid)-4]); !errors.Is(err, ErrTruncated) {
			t.Errorf("Expected ErrTruncated, got %v", err)
		}
	})

	t.Run("truncated header", func(t *testing.T) {
		if _, err := Decode(valid[:8]); !errors.Is(err, ErrTruncated) {
			t.Errorf("Expected ErrTruncated, got %v", err)
		}
	})

	t.Run("bad version", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[0] = 99
		if _, err := Decode(bad); err == nil {
			t.Error("Expected error for unsupported version")
		}
	})

	t.Run("trailing garbage", func(t *testing.T) {
		bad := append(append([]byte(nil), valid...), 0xde, 0xad)
		if _, err := Decode(bad); err == nil {
			t.Error("Expected error for trailing bytes")
		}
	})
}
