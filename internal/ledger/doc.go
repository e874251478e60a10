// Package ledger implements the in-memory inventory ledger: the authoritative
// per-aisle record of on-hand quantities.
//
// # Ownership
//
// The ledger is exclusively owned and mutated by the inventory coordinator.
// Mutations happen only during a task's reconciliation step, after the
// scatter/gather barrier has released, and only for worker results that
// reported OK. External readers get copies through Snapshot and Quantity;
// nothing outside the coordinator can write.
//
// # Update rules
//
//   - FETCH decrements per item, clamping at zero. Demand beyond on-hand
//     stock is silently dropped rather than producing an error or a negative
//     quantity.
//   - RESTOCK increments per item with no upper bound.
//   - Items whose name does not resolve to a catalog aisle are skipped:
//     an unknown item never mutates the ledger.
//
// # Concurrency
//
// A single RWMutex guards the whole structure. ApplyFetch and ApplyRestock
// apply one task's entire reconciled batch under one critical section, so the
// ledger moves between per-task-consistent states: a concurrent reader never
// observes half of one task's update interleaved with half of another's.
// Quantities are float64 end to end so fractional (weight-based) amounts
// survive the wire format, the ledger, and the reply unchanged.
package ledger
