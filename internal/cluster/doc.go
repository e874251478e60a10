// Package cluster provides the shared message vocabulary and HTTP/JSON
// plumbing used between the grocery fulfillment services: the ordering
// boundary, the inventory coordinator, the aisle robots, and the pricing
// service.
//
// # Overview
//
// Every synchronous call in the system is HTTP/JSON and uses the types and
// helpers defined here. The asynchronous scatter path (coordinator to robots)
// travels over the broadcast transport instead; see the broadcast and wire
// packages.
//
// # Topology
//
//	┌──────────┐  OrderRequest   ┌─────────────┐  PriceRequest  ┌─────────┐
//	│ Ordering ├────────────────►│  Inventory  ├───────────────►│ Pricing │
//	│ boundary │◄────────────────┤ Coordinator │◄───────────────┤ service │
//	└──────────┘   OrderReply    └──┬───────▲──┘  PriceResponse └─────────┘
//	                                │       │
//	                     descriptor │       │ RobotResult
//	                    (broadcast) │       │ (point-to-point)
//	                             ┌──▼───────┴──┐
//	                             │ Aisle robots│
//	                             └─────────────┘
//
// # Core Types
//
// OrderRequest / OrderReply: The ordering boundary's call into the
// coordinator. Carries the actor id, order type, and the per-aisle order map.
//
// RobotResult: A robot's report for one observed task. Every robot reports
// exactly once per task, even with an empty item list, because the
// coordinator's barrier counts responses rather than processed items.
//
// PriceRequest / PriceResponse: The coordinator's synchronous pricing lookup
// for fetch orders.
//
// Code: The shared reply taxonomy (OK, BAD_REQUEST, INTERNAL_ERROR). Only
// BAD_REQUEST ever surfaces to the ordering caller as a failure; everything
// else degrades gracefully inside the coordinator.
//
// # Communication Protocol
//
// PostJSON and GetJSON wrap the shared HTTP client with JSON encoding,
// context support, and status checking. Callers pick the timeout through the
// context; the client itself enforces a conservative upper bound.
package cluster
