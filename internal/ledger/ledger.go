package ledger

import (
	"sync"

	"github.com/dreamware/grocer/internal/catalog"
)

// Ledger is the authoritative in-memory record of on-hand quantities, grouped
// by aisle. It is owned by the inventory coordinator: every mutation happens
// through ApplyFetch or ApplyRestock during a task's reconciliation step, and
// each call applies its whole batch under one lock so two tasks' updates never
// interleave.
//
// Invariant: no quantity is ever negative. Fetches clamp at zero rather than
// erroring; excess demand is silently dropped.
type Ledger struct {
	mu    sync.RWMutex
	stock map[catalog.Aisle]map[string]float64
}

// New creates an empty ledger with a bucket per aisle.
func New() *Ledger {
	stock := make(map[catalog.Aisle]map[string]float64)
	for _, aisle := range catalog.Aisles() {
		stock[aisle] = make(map[string]float64)
	}
	return &Ledger{stock: stock}
}

// NewSeeded creates a ledger with every catalog item stocked at qty.
func NewSeeded(qty float64) *Ledger {
	l := New()
	for _, aisle := range catalog.Aisles() {
		for _, item := range catalog.ItemsFor(aisle) {
			l.stock[aisle][item] = qty
		}
	}
	return l
}

// ApplyFetch decrements on-hand quantities for one task's reconciled items,
// clamping each item at zero. Items with no known aisle are skipped entirely.
// The whole batch is applied atomically with respect to other Apply calls.
// Returns the number of lines applied and the number skipped as unknown.
func (l *Ledger) ApplyFetch(items []catalog.ItemQty) (applied, skipped int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, it := range items {
		aisle, ok := catalog.AisleFor(it.Item)
		if !ok {
			skipped++
			continue
		}
		onHand := l.stock[aisle][it.Item]
		onHand -= it.Qty
		if onHand < 0 {
			onHand = 0
		}
		l.stock[aisle][it.Item] = onHand
		applied++
	}
	return applied, skipped
}

// ApplyRestock increments on-hand quantities for one task's reconciled items.
// There is no upper bound. Items with no known aisle are skipped. The whole
// batch is applied atomically with respect to other Apply calls.
func (l *Ledger) ApplyRestock(items []catalog.ItemQty) (applied, skipped int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, it := range items {
		aisle, ok := catalog.AisleFor(it.Item)
		if !ok {
			skipped++
			continue
		}
		l.stock[aisle][it.Item] += it.Qty
		applied++
	}
	return applied, skipped
}

// Quantity returns the on-hand quantity for an item. The second return value
// is false for items the catalog doesn't know.
func (l *Ledger) Quantity(item string) (float64, bool) {
	aisle, ok := catalog.AisleFor(item)
	if !ok {
		return 0, false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stock[aisle][item], true
}

// Snapshot returns a copy of the full ledger for diagnostics. Mutating the
// returned maps does not affect the ledger.
func (l *Ledger) Snapshot() map[string]map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]map[string]float64, len(l.stock))
	for aisle, items := range l.stock {
		copied := make(map[string]float64, len(items))
		for item, qty := range items {
			copied[item] = qty
		}
		out[string(aisle)] = copied
	}
	return out
}

// ItemCount returns the number of distinct items tracked across all aisles.
func (l *Ledger) ItemCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, items := range l.stock {
		n += len(items)
	}
	return n
}
