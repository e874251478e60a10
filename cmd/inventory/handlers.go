package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/inventory"
)

type server struct {
	coord *inventory.Coordinator
	log   *slog.Logger
}

func newServer(coord *inventory.Coordinator, log *slog.Logger) *server {
	return &server{coord: coord, log: log}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/order", s.handleOrder)
	mux.HandleFunc("/robot/result", s.handleRobotResult)
	// Diagnostics
	mux.HandleFunc("/ledger", s.handleLedger)
	mux.HandleFunc("/tasks", s.handleTasks)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// handleOrder runs one order to completion. The call blocks for up to the
// barrier timeout, so callers need a generous client timeout.
func (s *server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req cluster.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, cluster.OrderReply{
			Code:    cluster.CodeBadRequest,
			Message: "bad json",
		})
		return
	}

	reply := s.coord.ProcessOrder(r.Context(), req)
	status := http.StatusOK
	if reply.Code == cluster.CodeBadRequest {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, reply)
}

// handleRobotResult is the gather endpoint. It always acknowledges OK, even
// for tasks that have already finalized.
func (s *server) handleRobotResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var res cluster.RobotResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeJSON(w, http.StatusBadRequest, cluster.BasicReply{
			Code:    cluster.CodeBadRequest,
			Message: "bad json",
		})
		return
	}
	writeJSON(w, http.StatusOK, s.coord.ReportResult(res))
}

func (s *server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Stock map[string]map[string]float64 `json:"stock"`
	}{Stock: s.coord.Ledger().Snapshot()})
}

func (s *server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		InFlight int `json:"in_flight"`
	}{InFlight: s.coord.InFlight()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
