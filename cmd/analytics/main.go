// The analytics binary tails the ordering service's event broadcast, keeps
// running latency and success aggregates, and prints a styled summary after
// every event and again at shutdown.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/dreamware/grocer/internal/analytics"
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
	log := logging.New("analytics", cfg.Logging.Level)

	sub, err := broadcast.Subscribe(cfg.Analytics.BroadcastAddr, analytics.Topic)
	if err != nil {
		log.Error("subscribe failed", "addr", cfg.Analytics.BroadcastAddr, "err", err)
		os.Exit(1)
	}
	defer sub.Close()

	fmt.Println(styles.Headerf("analytics collector"))
	log.Info("subscribed", "addr", cfg.Analytics.BroadcastAddr, "topic", analytics.Topic)

	collector := analytics.NewCollector()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case msg, ok := <-sub.Messages():
			if !ok {
				log.Info("broadcast channel closed")
				printSummary(collector.Stats())
				return
			}
			var event analytics.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.Error("bad event payload", "err", err)
				continue
			}
			collector.Record(event)
			log.Debug("event recorded",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"latency_ms", event.LatencyMs,
				"success", event.Success)
			printSummary(collector.Stats())
		case <-stop:
			printSummary(collector.Stats())
			log.Info("analytics stopped")
			return
		}
	}
}

func printSummary(s analytics.Stats) {
	fmt.Println(styles.Headerf("order analytics"))
	if s.TotalOrders == 0 {
		fmt.Println(styles.Infof("no events yet"))
		return
	}

	fmt.Println(styles.Infof("orders: %d  ok: %d  failed: %d", s.TotalOrders, s.Successful, s.Failed))
	fmt.Println(styles.Infof("latency ms  avg: %.2f  min: %.2f  max: %.2f",
		s.AvgLatencyMs, s.MinLatencyMs, s.MaxLatencyMs))

	types := maps.Keys(s.ByType)
	slices.Sort(types)
	for _, typ := range types {
		ts := s.ByType[typ]
		line := fmt.Sprintf("%-16s count: %d  ok: %d  failed: %d  avg ms: %.2f",
			typ, ts.Count, ts.Success, ts.Failed, ts.AvgLatencyMs)
		if ts.Failed > 0 {
			fmt.Println(styles.Errorf("%s", line))
		} else {
			fmt.Println(styles.Successf("%s", line))
		}
	}
}
