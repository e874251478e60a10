// The inventory service is the fulfillment coordinator: it accepts orders,
// broadcasts task descriptors to the robot fleet, gathers results behind a
// barrier, reconciles the ledger, and prices completed fetches.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamware/grocer/internal/broadcast"
	"github.com/dreamware/grocer/internal/config"
	"github.com/dreamware/grocer/internal/inventory"
	"github.com/dreamware/grocer/internal/ledger"
	"github.com/dreamware/grocer/internal/logging"
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
	log := logging.New("inventory", cfg.Logging.Level)

	pub, err := broadcast.NewPublisher(cfg.Inventory.BroadcastAddr)
	if err != nil {
		log.Error("broadcast bind failed", "addr", cfg.Inventory.BroadcastAddr, "err", err)
		os.Exit(1)
	}
	defer pub.Close()

	coord := inventory.New(inventory.Options{
		Workers:        cfg.Inventory.WorkerCount,
		BarrierTimeout: cfg.Inventory.BarrierTimeout(),
		Publisher:      pub,
		Pricer:         &inventory.HTTPPricer{Addr: "http://" + cfg.Pricing.ListenAddr},
		Ledger:         ledger.NewSeeded(cfg.Inventory.InitialStock),
		Logger:         log,
	})

	srv := newServer(coord, log)
	httpSrv := &http.Server{
		Addr:              cfg.Inventory.ListenAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Println(styles.Headerf("inventory coordinator"))
		log.Info("listening",
			"http", cfg.Inventory.ListenAddr,
			"broadcast", cfg.Inventory.BroadcastAddr,
			"workers", cfg.Inventory.WorkerCount,
			"barrier_timeout", cfg.Inventory.BarrierTimeout().String())
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
	log.Info("inventory stopped")
}
