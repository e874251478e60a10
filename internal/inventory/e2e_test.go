package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/grocer/internal/broadcast"
	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/ledger"
	"github.com/dreamware/grocer/internal/robot"
)

// TestEndToEnd runs the full path: coordinator publishing over a real TCP
// broadcast, five robot goroutines subscribing and filtering, results flowing
// back through ReportResult.
func TestEndToEnd(t *testing.T) {
	pub, err := broadcast.NewPublisher("127.0.0.1:0")
	require.NoError(t, err)
	defer pub.Close()

	led := ledger.NewSeeded(100)
	coord := New(Options{
		Publisher:      pub,
		Ledger:         led,
		BarrierTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report := func(_ context.Context, res cluster.RobotResult) error {
		coord.ReportResult(res)
		return nil
	}
	for _, aisle := range aisleRobots {
		sub, err := broadcast.Subscribe(pub.Addr(), TopicFetch, TopicRestock)
		require.NoError(t, err)
		defer sub.Close()

		r := robot.New(robot.Options{
			ID:     fmt.Sprintf("robot_%s", aisle),
			Aisle:  aisle,
			Report: report,
		})
		go r.Run(ctx, sub)
	}
	waitForSubscribers(t, pub, len(aisleRobots))

	t.Run("fetch", func(t *testing.T) {
		reply := coord.ProcessOrder(context.Background(), groceryOrder(cluster.Order{
			"bread": {{Item: "bagels", Qty: 2}},
			"dairy": {{Item: "milk", Qty: 1.5}},
		}))

		assert.Equal(t, cluster.CodeOK, reply.Code)
		assert.Equal(t, "completed: 2 items processed", reply.Message)

		bagels, _ := led.Quantity("bagels")
		milk, _ := led.Quantity("milk")
		assert.Equal(t, float64(98), bagels)
		assert.Equal(t, 98.5, milk)
	})

	t.Run("restock", func(t *testing.T) {
		reply := coord.ProcessOrder(context.Background(), restockOrder(cluster.Order{
			"dairy": {{Item: "milk", Qty: 50}},
		}))

		assert.Equal(t, cluster.CodeOK, reply.Code)
		assert.Equal(t, "completed: 1 items processed", reply.Message)

		milk, _ := led.Quantity("milk")
		assert.Equal(t, 148.5, milk)
	})
}

func waitForSubscribers(t *testing.T, pub *broadcast.Publisher, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if pub.SubscriberCount() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("only %d/%d subscribers connected", pub.SubscriberCount(), n)
}
