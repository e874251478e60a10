// Package tasks implements the task registry: the bookkeeping half of the
// inventory coordinator's scatter/gather barrier.
//
// # Overview
//
// Each incoming order becomes one Task. The coordinator broadcasts the task
// to every aisle robot and then blocks until either all robots have reported
// or a deadline expires. The registry owns everything that must be updated
// atomically for that to be race-free: the monotonic id counter, the map of
// in-flight tasks, and each task's accumulating result list with its
// response counter.
//
// # The barrier
//
//	Create ──► task.done (open)
//	   Record #1..W-1 ──► append, counter++
//	   Record #W      ──► append, counter++, close(task.done)   ◄─ exactly once
//	                                   │
//	   waiter: select { <-task.Done()  │  <-deadline }
//	                                   │
//	Finalize ──► results copied out, entry deleted
//	   Record (late) ──► unknown id, discarded no-op
//
// The "I was the W-th" decision and the channel close happen inside the same
// critical section as the append. Two racing recorders therefore cannot both
// observe the transition, nor can it be lost between them; the classic
// lost-wakeup race is structurally impossible.
//
// A timeout never touches the registry: the waiter simply stops waiting and
// calls Finalize with whatever has accumulated. The done channel is closed
// only by the W-th Record, or never.
//
// # Tolerated races
//
//   - Result for a finalized task: Record returns known=false; the caller
//     logs the discard and still acknowledges the robot.
//   - Result after barrier completion but before finalize: appended, visible
//     to Finalize, no second signal (the channel closes once).
//   - Double finalize: the second call returns ok=false.
//
// # Thread safety
//
// All methods are safe for concurrent use. One mutex guards all registry
// state; per-task result slices are never shared outside the lock until
// Finalize hands them to the single waiter.
package tasks
