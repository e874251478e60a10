package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dreamware/grocer/internal/catalog"
)

// Code is the shared reply taxonomy for all synchronous calls.
type Code string

const (
	CodeOK            Code = "OK"
	CodeBadRequest    Code = "BAD_REQUEST"
	CodeInternalError Code = "INTERNAL_ERROR"
)

// MessageType distinguishes the two kinds of inbound orders.
type MessageType string

const (
	// GroceryOrder is a customer fetch: stock is decremented.
	GroceryOrder MessageType = "GROCERY_ORDER"
	// RestockOrder is a supplier delivery: stock is incremented.
	RestockOrder MessageType = "RESTOCK_ORDER"
)

// Order maps aisle name to the ordered lines for that aisle. The map may be
// sparse; aisles with no lines are simply omitted.
type Order map[string][]catalog.ItemQty

// Flatten collapses the per-aisle order map into a single item list, visiting
// aisles in the catalog's fixed order so the result is deterministic. Lines
// filed under unknown aisle names are dropped.
func (o Order) Flatten() []catalog.ItemQty {
	var out []catalog.ItemQty
	for _, aisle := range catalog.Aisles() {
		out = append(out, o[string(aisle)]...)
	}
	return out
}

// LineItems returns the total number of order lines across known aisles.
// An order with zero line items is invalid and must be rejected.
func (o Order) LineItems() int {
	n := 0
	for _, aisle := range catalog.Aisles() {
		n += len(o[string(aisle)])
	}
	return n
}

// OrderRequest is the ordering boundary's call into the inventory
// coordinator. Exactly one of CustomerID (grocery orders) or SupplierID
// (restock orders) is expected to be set.
type OrderRequest struct {
	MessageType MessageType `json:"message_type"`
	CustomerID  string      `json:"customer_id,omitempty"`
	SupplierID  string      `json:"supplier_id,omitempty"`
	TimestampMs int64       `json:"timestamp_ms"`
	Order       Order       `json:"order"`
}

// ActorID returns the id of the party placing the order: the customer for
// grocery orders, the supplier for restock orders.
func (r OrderRequest) ActorID() string {
	if r.MessageType == RestockOrder {
		return r.SupplierID
	}
	return r.CustomerID
}

// OrderReply is the coordinator's aggregated answer to an OrderRequest.
// Items lists what the robots reported processing; TotalPrice is populated
// for fetch orders only.
type OrderReply struct {
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Items      []catalog.ItemQty `json:"items"`
	TotalPrice float64           `json:"total_price,omitempty"`
}

// RobotResult is one robot's report for one observed task. The item list may
// be empty when the robot owns none of the ordered items; it still reports so
// the coordinator's barrier count reaches the expected worker count.
type RobotResult struct {
	RobotID     string            `json:"robot_id"`
	TaskID      string            `json:"task_id"`
	Code        Code              `json:"code"`
	Message     string            `json:"message"`
	TimestampMs int64             `json:"timestamp_ms"`
	Items       []catalog.ItemQty `json:"items"`
}

// BasicReply acknowledges a call that returns no payload.
type BasicReply struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// PriceRequest asks the pricing service to total an item list.
type PriceRequest struct {
	Items []catalog.ItemQty `json:"items"`
}

// PriceResponse carries the computed total, rounded to 2 decimal places.
type PriceResponse struct {
	Code       Code    `json:"code"`
	Message    string  `json:"message"`
	TotalPrice float64 `json:"total_price"`
}

// The client cap must exceed the coordinator's barrier timeout plus a buffer;
// per-call deadlines come from the caller's context.
var httpClient = &http.Client{Timeout: 30 * time.Second}

func PostJSON(ctx context.Context, url string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
