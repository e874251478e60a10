// Package tasks implements the in-flight task registry for the inventory
// coordinator. See doc.go for complete package documentation.
package tasks

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
)

// Type classifies a task by its effect on the ledger.
type Type string

const (
	// TypeFetch decrements stock (customer grocery order).
	TypeFetch Type = "FETCH"
	// TypeRestock increments stock (supplier delivery).
	TypeRestock Type = "RESTOCK"
)

// Task is the immutable handle returned by Create. It carries the task's
// identity and payload plus the one-shot completion signal the order-intake
// flow blocks on.
//
// The handle is safe to share: all mutable per-task state (the accumulating
// result list and response counter) lives inside the registry and is guarded
// by the registry's mutex.
type Task struct {
	// ID uniquely identifies this task for its whole lifetime.
	// Format: "fetch-N" or "restock-N" with N strictly increasing.
	ID string

	// Type determines the reconciliation rule applied at finalize time.
	Type Type

	// Items is the flattened original order, broadcast to all robots.
	Items []catalog.ItemQty

	// CreatedAt is the task creation timestamp, carried in the broadcast
	// descriptor.
	CreatedAt time.Time

	// done is closed exactly once, when the response counter reaches the
	// expected worker count. Never closed by a timeout; the waiter races
	// this channel against its own deadline.
	done chan struct{}
}

// Done returns the completion signal. It is closed when all expected workers
// have responded; a barrier timeout leaves it open.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// taskState is the registry-private mutable state for one in-flight task.
type taskState struct {
	task    *Task
	results []cluster.RobotResult
}

// Registry tracks all in-flight tasks for the coordinator, generating
// process-unique task ids and implementing the scatter/gather barrier's
// counting side.
//
// Concurrency model:
//   - One mutex guards the id counter, the task map, and every per-task
//     result list. Record computes the "W-th response" transition inside
//     the same critical section as the append, so exactly one recorder
//     observes it: two racing recorders can neither both nor neither see
//     the transition (no lost wakeup, no double signal).
//   - Task handles returned by Create are immutable; the one-shot done
//     channel is the only cross-goroutine signal.
//
// Lifecycle: Create → zero or more Record calls → Finalize (reads results,
// deletes the entry). A Record for a finalized or unknown id is a tolerated
// no-op; callers log and move on.
type Registry struct {
	mu       sync.Mutex
	expected int
	nextID   uint64
	tasks    map[string]*taskState
}

// NewRegistry creates a registry expecting `expected` worker responses per
// task. The expected count is fixed for the registry's lifetime.
func NewRegistry(expected int) *Registry {
	return &Registry{
		expected: expected,
		tasks:    make(map[string]*taskState),
	}
}

// Expected returns the number of worker responses that complete a barrier.
func (r *Registry) Expected() int {
	return r.expected
}

// Create allocates a fresh task id, inserts a new in-flight task with an
// empty result list, and returns its handle. Safe under concurrent callers;
// ids are strictly increasing across all task types.
func (r *Registry) Create(typ Type, items []catalog.ItemQty) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	task := &Task{
		ID:        fmt.Sprintf("%s-%d", strings.ToLower(string(typ)), r.nextID),
		Type:      typ,
		Items:     items,
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}
	r.tasks[task.ID] = &taskState{task: task}
	return task
}

// Record appends a worker result to the task's accumulating list and
// increments the response counter.
//
// Returns:
//   - first: true exactly once per task, for the recorder whose result made
//     the counter reach the expected worker count. The done channel is
//     closed in the same critical section, so the signal cannot race the
//     append.
//   - known: false when the task id is unknown (never existed, or already
//     finalized). The result is discarded; this is not an error condition.
//
// A result arriving after the barrier already completed but before finalize
// is appended (it will be visible to Finalize) without re-signaling.
func (r *Registry) Record(taskID string, result cluster.RobotResult) (first, known bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.tasks[taskID]
	if !ok {
		return false, false
	}

	state.results = append(state.results, result)
	if len(state.results) == r.expected {
		close(state.task.done)
		return true, true
	}
	return false, true
}

// Finalize removes the task and returns its accumulated results, complete or
// partial. The second return value is false if the id is unknown (already
// finalized or never created). Safe to call at most once per task; after it
// returns, any Record for the id becomes a discarded no-op.
func (r *Registry) Finalize(taskID string) ([]cluster.RobotResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.tasks[taskID]
	if !ok {
		return nil, false
	}
	delete(r.tasks, taskID)
	return state.results, true
}

// InFlight returns the number of tasks currently awaiting finalization.
// Diagnostics only.
func (r *Registry) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
