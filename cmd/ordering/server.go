package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dreamware/grocer/internal/analytics"
	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
)

// eventPublisher is the slice of the broadcast publisher the server needs.
type eventPublisher interface {
	Publish(topic string, payload []byte)
}

type serverOptions struct {
	InventoryURL string
	Timeout      time.Duration
	Publisher    eventPublisher
	Logger       *slog.Logger
}

type server struct {
	inventoryURL string
	timeout      time.Duration
	pub          eventPublisher
	log          *slog.Logger
}

func newServer(opts serverOptions) *server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &server{
		inventoryURL: opts.InventoryURL,
		timeout:      opts.Timeout,
		pub:          opts.Publisher,
		log:          opts.Logger,
	}
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/order", s.placeOrder)
	api.POST("/restock", s.placeRestock)

	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

// orderPayload is the public request shape for both order kinds. ActorID is
// the customer for fetches and the supplier for restocks.
type orderPayload struct {
	CustomerID string                       `json:"customer_id"`
	SupplierID string                       `json:"supplier_id"`
	Order      map[string][]catalog.ItemQty `json:"order" binding:"required"`
}

func (s *server) placeOrder(c *gin.Context) {
	s.forward(c, cluster.GroceryOrder)
}

func (s *server) placeRestock(c *gin.Context) {
	s.forward(c, cluster.RestockOrder)
}

func (s *server) forward(c *gin.Context, kind cluster.MessageType) {
	start := time.Now()
	eventType := "grocery_order"
	if kind == cluster.RestockOrder {
		eventType = "restock_order"
	}

	var payload orderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.emit(eventType, start, false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
		return
	}

	req := cluster.OrderRequest{
		MessageType: kind,
		CustomerID:  strings.TrimSpace(payload.CustomerID),
		SupplierID:  strings.TrimSpace(payload.SupplierID),
		TimestampMs: start.UnixMilli(),
		Order:       scrub(payload.Order),
	}
	if req.ActorID() == "" {
		s.emit(eventType, start, false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "actor id required"})
		return
	}
	if len(req.Order) == 0 {
		s.emit(eventType, start, false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "order has no valid line items"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	var reply cluster.OrderReply
	if err := cluster.PostJSON(ctx, s.inventoryURL+"/order", req, &reply); err != nil {
		s.emit(eventType, start, false)
		s.log.Error("inventory call failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "inventory unavailable"})
		return
	}

	s.emit(eventType, start, reply.Code == cluster.CodeOK)
	status := http.StatusOK
	if reply.Code == cluster.CodeBadRequest {
		status = http.StatusBadRequest
	}
	c.JSON(status, reply)
}

// scrub normalizes an incoming order: item names are trimmed and lowercased,
// non-positive quantities and unknown aisles are dropped. Unknown items are
// kept; the coordinator skips them during reconciliation and reports them
// back in the reply.
func scrub(order map[string][]catalog.ItemQty) cluster.Order {
	out := make(cluster.Order)
	for key, items := range order {
		aisle, ok := catalog.ParseAisle(strings.TrimSpace(strings.ToLower(key)))
		if !ok {
			continue
		}
		var kept []catalog.ItemQty
		for _, it := range items {
			name := strings.TrimSpace(strings.ToLower(it.Item))
			if name == "" || it.Qty <= 0 {
				continue
			}
			kept = append(kept, catalog.ItemQty{Item: name, Qty: it.Qty})
		}
		if len(kept) > 0 {
			out[string(aisle)] = kept
		}
	}
	return out
}

// emit publishes an analytics event for a served request. Delivery is best
// effort; a full subscriber queue drops the event, never the response.
func (s *server) emit(eventType string, start time.Time, success bool) {
	if s.pub == nil {
		return
	}
	event := analytics.NewEvent("ordering", eventType, time.Since(start), success)
	buf, err := json.Marshal(event)
	if err != nil {
		return
	}
	s.pub.Publish(analytics.Topic, buf)
}
