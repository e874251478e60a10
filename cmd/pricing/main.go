// The pricing service totals item lists against the store's unit prices. It
// is deliberately tiny: one stateless endpoint the coordinator calls after a
// completed fetch.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamware/grocer/internal/cluster"
	"github.com/dreamware/grocer/internal/config"
	"github.com/dreamware/grocer/internal/logging"
	"github.com/dreamware/grocer/internal/pricing"
	"github.com/dreamware/grocer/internal/styles"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Errorf("config: %v", err))
		os.Exit(1)
	}
	log := logging.New("pricing", cfg.Logging.Level)

	mux := http.NewServeMux()
	mux.HandleFunc("/price", handlePrice(log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpSrv := &http.Server{
		Addr:              cfg.Pricing.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Println(styles.Headerf("pricing service"))
		log.Info("listening", "http", cfg.Pricing.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	log.Info("pricing stopped")
}

func handlePrice(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req cluster.PriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(cluster.PriceResponse{
				Code:    cluster.CodeBadRequest,
				Message: "bad json",
			})
			return
		}

		total := pricing.Total(req.Items)
		log.Info("priced order", "line_items", len(req.Items), "total", total)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cluster.PriceResponse{
			Code:       cluster.CodeOK,
			Message:    "priced",
			TotalPrice: total,
		})
	}
}
