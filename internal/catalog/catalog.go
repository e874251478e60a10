// Package catalog defines the store's static domain vocabulary: the fixed set
// of aisles, the item-to-aisle mapping, and the per-unit price table.
//
// All tables are built once at package initialization and are immutable
// afterwards. Accessors return copies so callers cannot mutate shared state.
package catalog

// Aisle identifies one of the fixed store aisles. The set of aisles is closed:
// every known item belongs to exactly one aisle, and one robot is responsible
// for each aisle.
type Aisle string

const (
	AisleBread   Aisle = "bread"
	AisleDairy   Aisle = "dairy"
	AisleMeat    Aisle = "meat"
	AisleProduce Aisle = "produce"
	AisleParty   Aisle = "party"
)

// ItemQty is a single order line: an item name and a quantity. Quantities are
// float64 so weight-based produce (e.g. 1.5 lbs of tomatoes) round-trips
// losslessly through the wire format and the ledger.
type ItemQty struct {
	Item string  `json:"item"`
	Qty  float64 `json:"qty"`
}

// aisleItems lists the items stocked in each aisle.
var aisleItems = map[Aisle][]string{
	AisleBread:   {"bagels", "bread", "waffles", "tortillas", "buns"},
	AisleDairy:   {"milk", "eggs", "cheese", "yogurt", "butter"},
	AisleMeat:    {"chicken", "beef", "pork", "turkey", "fish"},
	AisleProduce: {"tomatoes", "onions", "apples", "oranges", "lettuce"},
	AisleParty:   {"soda", "paper_plates", "napkins", "chips", "cups"},
}

// unitPrices is the per-unit price table used by the pricing service.
var unitPrices = map[string]float64{
	// Bread aisle
	"bagels":    3.99,
	"bread":     2.49,
	"waffles":   4.29,
	"tortillas": 3.49,
	"buns":      2.99,
	// Dairy aisle
	"milk":   4.59,
	"eggs":   3.99,
	"cheese": 5.49,
	"yogurt": 1.29,
	"butter": 4.99,
	// Meat aisle
	"chicken": 8.99,
	"beef":    11.99,
	"pork":    7.49,
	"turkey":  9.49,
	"fish":    12.99,
	// Produce aisle
	"tomatoes": 2.99,
	"onions":   1.49,
	"apples":   1.99,
	"oranges":  2.49,
	"lettuce":  1.79,
	// Party aisle
	"soda":         1.99,
	"paper_plates": 3.49,
	"napkins":      2.49,
	"chips":        4.29,
	"cups":         2.99,
}

// itemAisle is the reverse lookup from item name to owning aisle, built once
// at startup from aisleItems.
var itemAisle = func() map[string]Aisle {
	m := make(map[string]Aisle)
	for aisle, items := range aisleItems {
		for _, item := range items {
			m[item] = aisle
		}
	}
	return m
}()

// Aisles returns all aisles in a fixed, deterministic order.
func Aisles() []Aisle {
	return []Aisle{AisleBread, AisleDairy, AisleMeat, AisleProduce, AisleParty}
}

// ParseAisle validates an aisle name and returns the typed aisle.
func ParseAisle(name string) (Aisle, bool) {
	a := Aisle(name)
	_, ok := aisleItems[a]
	return a, ok
}

// AisleFor returns the aisle that stocks the given item. The second return
// value is false for unknown items; callers must skip those during ledger
// reconciliation rather than inventing stock.
func AisleFor(item string) (Aisle, bool) {
	a, ok := itemAisle[item]
	return a, ok
}

// ItemsFor returns the items stocked in an aisle. The returned slice is a
// copy; mutating it does not affect the catalog.
func ItemsFor(a Aisle) []string {
	items := aisleItems[a]
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// UnitPrice returns the per-unit price for an item, or 0 for unknown items.
func UnitPrice(item string) float64 {
	return unitPrices[item]
}
