// Package inventory implements the Inventory Coordinator: the root component
// that turns a validated order into one scatter/gather task, keeps the shared
// ledger consistent, and assembles the aggregated reply.
//
// # Order lifecycle
//
//	ProcessOrder(req)
//	   │ validate ── empty actor / zero items ──► BAD_REQUEST (no task)
//	   │
//	   ├─ registry.Create ───────────► TaskState (response count 0)
//	   ├─ scatter: wire.Encode ─────► Publish on FETCH or RESTOCK topic
//	   │
//	   ├─ await: select { task.Done() | barrier timeout | ctx done }
//	   │        ▲
//	   │        └── ReportResult ──► registry.Record (robots, concurrent)
//	   │
//	   ├─ registry.Finalize ────────► accumulated results, task removed
//	   ├─ reconcile: OK results ────► ledger (fetch clamps at 0, restock adds,
//	   │                              unknown items skipped)
//	   ├─ price (fetch only) ───────► pricing collaborator, failure → 0
//	   └─ reply: "completed: N items processed"
//	             or "partial: R/W robots responded, N items processed"
//
// # Failure philosophy
//
// Only BAD_REQUEST ever reaches the caller as a failure, and only before any
// side effect. Everything downstream degrades: a robot that never answers
// makes the reply partial, a pricing outage makes the total 0, a result that
// arrives after finalization is logged and dropped. One task's timeout or one
// robot's crash can never block or corrupt an unrelated concurrent task.
//
// # Concurrency
//
// Each inbound order occupies exactly one goroutine, parked on its own
// task's one-shot completion channel (a real blocking wait, not a poll).
// Robot reports arrive on other goroutines and only touch registry state
// under the registry mutex. The ledger applies each task's reconciled batch
// atomically, so cross-task updates are linearizable per task.
package inventory
