// Package pricing computes order totals from the catalog's fixed per-unit
// price table.
package pricing

import (
	"math"

	"github.com/dreamware/grocer/internal/catalog"
)

// Total sums unit_price × qty over the item list, rounded to 2 decimal
// places. Items missing from the price table price at zero rather than
// erroring; pricing is best-effort by design.
func Total(items []catalog.ItemQty) float64 {
	total := 0.0
	for _, it := range items {
		total += catalog.UnitPrice(it.Item) * it.Qty
	}
	return math.Round(total*100) / 100
}
