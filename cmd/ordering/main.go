// The ordering service is the customer-facing boundary: it scrubs incoming
// orders, forwards them to the inventory coordinator, and publishes an
// analytics event for every request it serves.
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
	log := logging.New("ordering", cfg.Logging.Level)

	pub, err := broadcast.NewPublisher(cfg.Ordering.BroadcastAddr)
	if err != nil {
		log.Error("broadcast bind failed", "addr", cfg.Ordering.BroadcastAddr, "err", err)
		os.Exit(1)
	}
	defer pub.Close()

	srv := newServer(serverOptions{
		InventoryURL: "http://" + cfg.Ordering.InventoryAddr,
		Timeout:      cfg.Ordering.RequestTimeout(),
		Publisher:    pub,
		Logger:       log,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Ordering.ListenAddr,
		Handler:           srv.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Println(styles.Headerf("ordering service"))
		log.Info("listening",
			"http", cfg.Ordering.ListenAddr,
			"inventory", cfg.Ordering.InventoryAddr,
			"analytics_broadcast", cfg.Ordering.BroadcastAddr)
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
	log.Info("ordering stopped")
}
