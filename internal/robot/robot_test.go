package robot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/wire"
)

// capture is a ReportFunc that records every delivered result.
type capture struct {
	mu      sync.Mutex
	results []cluster.RobotResult
	err     error
}

func (c *capture) report(_ context.Context, res cluster.RobotResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
	return c.err
}

func (c *capture) all() []cluster.RobotResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]cluster.RobotResult(nil), c.results...)
}

func encode(t *testing.T, desc wire.Descriptor) []byte {
	t.Helper()
	payload, err := wire.Encode(desc)
	require.NoError(t, err)
	return payload
}

func TestHandleFiltersToOwnedAisle(t *testing.T) {
	tests := []struct {
		name      string
		aisle     catalog.Aisle
		items     []catalog.ItemQty
		wantItems []catalog.ItemQty
		wantMsg   string
	}{
		{
			name:  "owns some items",
			aisle: catalog.AisleBread,
			items: []catalog.ItemQty{
				{Item: "bagels", Qty: 2},
				{Item: "milk", Qty: 1},
				{Item: "bread", Qty: 1},
			},
			wantItems: []catalog.ItemQty{
				{Item: "bagels", Qty: 2},
				{Item: "bread", Qty: 1},
			},
			wantMsg: "FETCH completed by robot_bread: 2 items from bread",
		},
		{
			name:  "owns nothing",
			aisle: catalog.AisleMeat,
			items: []catalog.ItemQty{
				{Item: "bagels", Qty: 2},
			},
			wantItems: nil,
			wantMsg:   "FETCH completed by robot_meat: 0 items (no meat items in order)",
		},
		{
			name:  "unknown items belong to nobody",
			aisle: catalog.AisleDairy,
			items: []catalog.ItemQty{
				{Item: "caviar", Qty: 5},
				{Item: "milk", Qty: 1.5},
			},
			wantItems: []catalog.ItemQty{
				{Item: "milk", Qty: 1.5},
			},
			wantMsg: "FETCH completed by robot_dairy: 1 items from dairy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &capture{}
			r := New(Options{
				ID:     "robot_" + string(tt.aisle),
				Aisle:  tt.aisle,
				Report: sink.report,
			})

			r.Handle(context.Background(), "FETCH", encode(t, wire.Descriptor{
				TaskID:      "fetch-7",
				TaskType:    wire.TypeFetch,
				Items:       tt.items,
				TimestampMs: time.Now().UnixMilli(),
			}))

			results := sink.all()
			require.Len(t, results, 1, "exactly one result per task")
			res := results[0]
			assert.Equal(t, "fetch-7", res.TaskID)
			assert.Equal(t, cluster.CodeOK, res.Code)
			assert.Equal(t, tt.wantItems, res.Items)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.NotZero(t, res.TimestampMs)
		})
	}
}

func TestHandleRestockTopic(t *testing.T) {
	sink := &capture{}
	r := New(Options{ID: "robot_dairy", Aisle: catalog.AisleDairy, Report: sink.report})

	r.Handle(context.Background(), "RESTOCK", encode(t, wire.Descriptor{
		TaskID:   "restock-3",
		TaskType: wire.TypeRestock,
		Items:    []catalog.ItemQty{{Item: "milk", Qty: 50}},
	}))

	results := sink.all()
	require.Len(t, results, 1)
	assert.Equal(t, "RESTOCK completed by robot_dairy: 1 items from dairy", results[0].Message)
}

func TestHandleBadPayload(t *testing.T) {
	sink := &capture{}
	r := New(Options{ID: "robot_bread", Aisle: catalog.AisleBread, Report: sink.report})

	r.Handle(context.Background(), "FETCH", []byte{0xff, 0x00, 0x01})

	assert.Empty(t, sink.all(), "garbage must not produce a result")
}

func TestHandleSurvivesReportFailure(t *testing.T) {
	sink := &capture{err: errors.New("coordinator unreachable")}
	r := New(Options{ID: "robot_bread", Aisle: catalog.AisleBread, Report: sink.report})

	// Must not panic; the error is logged and the robot moves on.
	r.Handle(context.Background(), "FETCH", encode(t, wire.Descriptor{
		TaskID:   "fetch-1",
		TaskType: wire.TypeFetch,
		Items:    []catalog.ItemQty{{Item: "bread", Qty: 1}},
	}))

	assert.Len(t, sink.all(), 1)
}

func TestWorkDelayOnlyWhenOwningItems(t *testing.T) {
	sink := &capture{}
	r := New(Options{
		ID:        "robot_party",
		Aisle:     catalog.AisleParty,
		WorkDelay: 100 * time.Millisecond,
		Report:    sink.report,
	})

	// No party items: the empty trip must be near-instant.
	start := time.Now()
	r.Handle(context.Background(), "FETCH", encode(t, wire.Descriptor{
		TaskID:   "fetch-2",
		TaskType: wire.TypeFetch,
		Items:    []catalog.ItemQty{{Item: "bread", Qty: 1}},
	}))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	// Owned items: the delay applies.
	start = time.Now()
	r.Handle(context.Background(), "FETCH", encode(t, wire.Descriptor{
		TaskID:   "fetch-3",
		TaskType: wire.TypeFetch,
		Items:    []catalog.ItemQty{{Item: "chips", Qty: 1}},
	}))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)

	assert.Len(t, sink.all(), 2)
}
