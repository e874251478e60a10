package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/inventory"
	"github.com/dreamware/grocer/internal/ledger"
	"github.com/dreamware/grocer/internal/logging"
)

// nopPublisher drops every broadcast; orders degrade to partial replies.
type nopPublisher struct{}

func (nopPublisher) Publish(string, []byte) {}

func newTestServer(t *testing.T) *server {
	t.Helper()
	log := logging.New("inventory-test", "error")
	coord := inventory.New(inventory.Options{
		Publisher:      nopPublisher{},
		Ledger:         ledger.NewSeeded(100),
		BarrierTimeout: 50 * time.Millisecond,
		Logger:         log,
	})
	return newServer(coord, log)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleOrder(t *testing.T) {
	srv := newTestServer(t)
	h := srv.routes()

	w := postJSON(t, h, "/order", cluster.OrderRequest{
		MessageType: cluster.GroceryOrder,
		CustomerID:  "cust-1",
		Order:       cluster.Order{"bread": {{Item: "bagels", Qty: 2}}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var reply cluster.OrderReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, cluster.CodeOK, reply.Code)
	// No robots are listening, so the barrier times out
	assert.Contains(t, reply.Message, "partial: 0/5")
}

func TestHandleOrderBadRequest(t *testing.T) {
	srv := newTestServer(t)
	h := srv.routes()

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader("{nope"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty order", func(t *testing.T) {
		w := postJSON(t, h, "/order", cluster.OrderRequest{
			MessageType: cluster.GroceryOrder,
			CustomerID:  "cust-1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var reply cluster.OrderReply
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
		assert.Equal(t, cluster.CodeBadRequest, reply.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/order", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleRobotResult(t *testing.T) {
	srv := newTestServer(t)
	h := srv.routes()

	// A result for an unknown task is still acknowledged
	w := postJSON(t, h, "/robot/result", cluster.RobotResult{
		RobotID: "robot_bread",
		TaskID:  "fetch-99",
		Code:    cluster.CodeOK,
		Items:   []catalog.ItemQty{{Item: "bagels", Qty: 1}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var reply cluster.BasicReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, cluster.CodeOK, reply.Code)
	assert.Equal(t, "result recorded", reply.Message)
}

func TestHandleDiagnostics(t *testing.T) {
	srv := newTestServer(t)
	h := srv.routes()

	t.Run("ledger", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ledger", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Stock map[string]map[string]float64 `json:"stock"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(100), body.Stock["bread"]["bagels"])
	})

	t.Run("tasks", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			InFlight int `json:"in_flight"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Zero(t, body.InFlight)
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
