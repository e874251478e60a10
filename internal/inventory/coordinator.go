// Package inventory implements the inventory coordinator.
// See doc.go for complete package documentation.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/ledger"
	"github.com/dreamware/grocer/internal/tasks"
	"github.com/dreamware/grocer/internal/wire"
)

// Broadcast topics the coordinator publishes task descriptors on.
const (
	TopicFetch   = "FETCH"
	TopicRestock = "RESTOCK"
)

const (
	// DefaultWorkers is one robot per aisle.
	DefaultWorkers = 5
	// DefaultBarrierTimeout bounds how long an order waits for robots.
	DefaultBarrierTimeout = 10 * time.Second
)

// Publisher is the coordinator's view of the broadcast channel.
type Publisher interface {
	Publish(topic string, payload []byte)
}

// Pricer is the coordinator's view of the downstream pricing collaborator.
type Pricer interface {
	TotalPrice(ctx context.Context, items []catalog.ItemQty) (float64, error)
}

// Options configures a Coordinator. Zero values take the documented defaults;
// Publisher is required, Pricer may be nil (fetch orders then price at 0).
type Options struct {
	Workers        int
	BarrierTimeout time.Duration
	Publisher      Publisher
	Pricer         Pricer
	Ledger         *ledger.Ledger
	Logger         *slog.Logger
}

// Coordinator owns the ledger and the task registry, and implements the
// order lifecycle: validate, scatter, barrier wait, reconcile, price, reply.
// All methods are safe for concurrent use; many orders can be in flight at
// once, each blocking its own caller on its own task's barrier.
type Coordinator struct {
	registry *tasks.Registry
	ledger   *ledger.Ledger
	pub      Publisher
	pricer   Pricer
	timeout  time.Duration
	log      *slog.Logger
}

// New creates a coordinator from opts.
func New(opts Options) *Coordinator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.BarrierTimeout <= 0 {
		opts.BarrierTimeout = DefaultBarrierTimeout
	}
	if opts.Ledger == nil {
		opts.Ledger = ledger.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Coordinator{
		registry: tasks.NewRegistry(opts.Workers),
		ledger:   opts.Ledger,
		pub:      opts.Publisher,
		pricer:   opts.Pricer,
		timeout:  opts.BarrierTimeout,
		log:      opts.Logger,
	}
}

// Ledger exposes the coordinator-owned ledger for diagnostic reads.
func (c *Coordinator) Ledger() *ledger.Ledger {
	return c.ledger
}

// InFlight returns the number of tasks currently awaiting their barrier.
func (c *Coordinator) InFlight() int {
	return c.registry.InFlight()
}

// ProcessOrder runs one order through the full task lifecycle and blocks the
// caller until the aggregated reply is ready: at most the barrier timeout
// plus the pricing call.
//
// The only failure surfaced to the caller is BAD_REQUEST (empty actor id or
// zero flattened items), rejected before any task exists. A barrier timeout
// degrades the reply to a partial, it does not fail the order; a pricing
// failure degrades the price to 0.
func (c *Coordinator) ProcessOrder(ctx context.Context, req cluster.OrderRequest) cluster.OrderReply {
	if req.ActorID() == "" {
		return cluster.OrderReply{
			Code:    cluster.CodeBadRequest,
			Message: "actor id required",
		}
	}
	items := req.Order.Flatten()
	if len(items) == 0 {
		return cluster.OrderReply{
			Code:    cluster.CodeBadRequest,
			Message: "order cannot be empty",
		}
	}

	taskType := tasks.TypeFetch
	if req.MessageType == cluster.RestockOrder {
		taskType = tasks.TypeRestock
	}

	task := c.registry.Create(taskType, items)
	c.log.Info("task created",
		"task_id", task.ID,
		"task_type", string(taskType),
		"line_items", len(items),
		"actor", req.ActorID())

	c.scatter(task)
	allResponded := c.await(ctx, task)

	results, _ := c.registry.Finalize(task.ID)
	reconciled := c.reconcile(taskType, results)

	reply := cluster.OrderReply{
		Code:  cluster.CodeOK,
		Items: reconciled,
	}
	if taskType == tasks.TypeFetch && len(reconciled) > 0 {
		reply.TotalPrice = c.price(ctx, task.ID, reconciled)
	}

	if allResponded {
		reply.Message = fmt.Sprintf("completed: %d items processed", len(reconciled))
	} else {
		reply.Message = fmt.Sprintf("partial: %d/%d robots responded, %d items processed",
			len(results), c.registry.Expected(), len(reconciled))
		c.log.Warn("barrier timeout",
			"task_id", task.ID,
			"responded", len(results),
			"expected", c.registry.Expected())
	}
	return reply
}

// ReportResult is the gather side: robots call it once per observed task.
// It always acknowledges OK (a robot must not be penalized for racing a
// finalization) and mutates the registry only when the task is still live.
func (c *Coordinator) ReportResult(res cluster.RobotResult) cluster.BasicReply {
	first, known := c.registry.Record(res.TaskID, res)
	if !known {
		c.log.Debug("discarding late result",
			"task_id", res.TaskID,
			"robot_id", res.RobotID)
	} else if first {
		c.log.Debug("barrier complete", "task_id", res.TaskID)
	}
	return cluster.BasicReply{Code: cluster.CodeOK, Message: "result recorded"}
}

// scatter publishes the task descriptor on the broadcast channel, tagged by
// task type so robots can subscribe selectively.
func (c *Coordinator) scatter(task *tasks.Task) {
	topic := TopicFetch
	typeCode := wire.TypeFetch
	if task.Type == tasks.TypeRestock {
		topic = TopicRestock
		typeCode = wire.TypeRestock
	}

	payload, err := wire.Encode(wire.Descriptor{
		TaskID:      task.ID,
		TaskType:    typeCode,
		Items:       task.Items,
		TimestampMs: task.CreatedAt.UnixMilli(),
	})
	if err != nil {
		// Unencodable descriptors can only come from absurd item names;
		// the barrier will time out and the order degrades to a partial.
		c.log.Error("descriptor encode failed", "task_id", task.ID, "err", err)
		return
	}
	c.pub.Publish(topic, payload)
}

// await blocks until the task's barrier completes or the deadline passes.
// Returns true when all expected workers responded in time.
func (c *Coordinator) await(ctx context.Context, task *tasks.Task) bool {
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-task.Done():
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		// Caller gave up; finalize whatever has arrived.
		return false
	}
}

// reconcile applies OK-coded results to the ledger and returns the combined
// item list robots reported processing. Non-OK results contribute nothing to
// the ledger but were still counted by the barrier.
func (c *Coordinator) reconcile(taskType tasks.Type, results []cluster.RobotResult) []catalog.ItemQty {
	var reconciled []catalog.ItemQty
	for _, res := range results {
		if res.Code != cluster.CodeOK {
			c.log.Warn("robot reported failure",
				"robot_id", res.RobotID,
				"task_id", res.TaskID,
				"message", res.Message)
			continue
		}
		reconciled = append(reconciled, res.Items...)
	}

	var applied, skipped int
	switch taskType {
	case tasks.TypeRestock:
		applied, skipped = c.ledger.ApplyRestock(reconciled)
	default:
		applied, skipped = c.ledger.ApplyFetch(reconciled)
	}
	if skipped > 0 {
		c.log.Warn("skipped unknown items during reconciliation",
			"applied", applied, "skipped", skipped)
	}
	return reconciled
}

// price asks the pricing collaborator for the order total. Any failure is
// swallowed: the order succeeds with a zero price.
func (c *Coordinator) price(ctx context.Context, taskID string, items []catalog.ItemQty) float64 {
	if c.pricer == nil {
		return 0
	}
	total, err := c.pricer.TotalPrice(ctx, items)
	if err != nil {
		c.log.Warn("pricing unavailable, defaulting to 0",
			"task_id", taskID, "err", err)
		return 0
	}
	return total
}
