// Package robot implements the aisle worker. Each robot owns exactly one
// aisle: it subscribes to the broadcast channel, picks the items belonging to
// its aisle out of every task descriptor, and reports a result for every task
// it observes, even when its aisle has nothing to do. The coordinator's
// barrier counts responses, so a silent robot would stall every order.
package robot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dreamware/grocer/internal/broadcast"
	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/wire"
)

// ReportFunc delivers a finished result back to the coordinator. It is a
// field rather than a hardwired HTTP call so tests can capture results
// in-process.
type ReportFunc func(ctx context.Context, res cluster.RobotResult) error

// HTTPReport returns a ReportFunc that POSTs results to the coordinator's
// result endpoint at addr (host:port).
func HTTPReport(addr string) ReportFunc {
	url := fmt.Sprintf("http://%s/robot/result", addr)
	return func(ctx context.Context, res cluster.RobotResult) error {
		var reply cluster.BasicReply
		return cluster.PostJSON(ctx, url, res, &reply)
	}
}

// Options configures a Robot. ID and Aisle are required; WorkDelay defaults
// to zero (no simulated picking time).
type Options struct {
	ID        string
	Aisle     catalog.Aisle
	WorkDelay time.Duration
	Report    ReportFunc
	Logger    *slog.Logger
}

// Robot processes task descriptors for a single aisle.
type Robot struct {
	id        string
	aisle     catalog.Aisle
	workDelay time.Duration
	report    ReportFunc
	log       *slog.Logger
}

func New(opts Options) *Robot {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Robot{
		id:        opts.ID,
		aisle:     opts.Aisle,
		workDelay: opts.WorkDelay,
		report:    opts.Report,
		log:       opts.Logger,
	}
}

// Run consumes task descriptors from sub until the subscription closes or
// ctx is canceled. Descriptors are processed sequentially; a robot picks one
// order at a time.
func (r *Robot) Run(ctx context.Context, sub *broadcast.Subscriber) {
	r.log.Info("robot online", "robot_id", r.id, "aisle", string(r.aisle))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Messages():
			if !ok {
				r.log.Info("broadcast channel closed", "robot_id", r.id)
				return
			}
			r.Handle(ctx, msg.Topic, msg.Payload)
		}
	}
}

// Handle processes one broadcast frame: decode, filter to the owned aisle,
// simulate the picking work, and report. Undecodable payloads are dropped
// without a report; the coordinator treats the missing response as a
// timeout for that robot.
func (r *Robot) Handle(ctx context.Context, topic string, payload []byte) {
	desc, err := wire.Decode(payload)
	if err != nil {
		r.log.Error("bad task descriptor",
			"robot_id", r.id, "topic", topic, "err", err)
		return
	}

	mine := r.filter(desc.Items)
	if len(mine) > 0 && r.workDelay > 0 {
		// Picking takes time; empty trips are free.
		time.Sleep(r.workDelay)
	}

	res := cluster.RobotResult{
		RobotID:     r.id,
		TaskID:      desc.TaskID,
		Code:        cluster.CodeOK,
		Message:     r.resultMessage(topic, len(mine)),
		TimestampMs: time.Now().UnixMilli(),
		Items:       mine,
	}
	r.log.Info("task handled",
		"robot_id", r.id,
		"task_id", desc.TaskID,
		"topic", topic,
		"items", len(mine))

	if err := r.report(ctx, res); err != nil {
		r.log.Error("result delivery failed",
			"robot_id", r.id, "task_id", desc.TaskID, "err", err)
	}
}

// filter keeps the items whose catalog aisle matches the robot's own.
func (r *Robot) filter(items []catalog.ItemQty) []catalog.ItemQty {
	var mine []catalog.ItemQty
	for _, it := range items {
		if aisle, ok := catalog.AisleFor(it.Item); ok && aisle == r.aisle {
			mine = append(mine, it)
		}
	}
	return mine
}

func (r *Robot) resultMessage(topic string, n int) string {
	if n == 0 {
		return fmt.Sprintf("%s completed by %s: 0 items (no %s items in order)",
			topic, r.id, r.aisle)
	}
	return fmt.Sprintf("%s completed by %s: %d items from %s", topic, r.id, n, r.aisle)
}
