// The robot binary runs a single aisle robot: it subscribes to the
// coordinator's task broadcast, picks its aisle's items, and reports results
// over HTTP. Run five of these, one per aisle, for a full fleet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreamware/grocer/internal/broadcast"
	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/config"
	"github.com/dreamware/grocer/internal/inventory"
	"github.com/dreamware/grocer/internal/logging"
	"github.com/dreamware/grocer/internal/robot"
	"github.com/dreamware/grocer/internal/styles"
)

var (
	flagConfig        string
	flagAisle         string
	flagRobotID       string
	flagInventoryAddr string
	flagBroadcastAddr string
	flagWorkDelay     time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "robot",
		Short: "Run an aisle robot",
		Long: `Run a single aisle robot. The robot subscribes to the inventory
coordinator's task broadcast, handles the items belonging to its aisle, and
reports a result for every task it sees.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	root.Flags().StringVar(&flagAisle, "aisle", "", "aisle this robot owns (bread, dairy, meat, produce, party)")
	root.Flags().StringVar(&flagRobotID, "robot-id", "", "robot identifier (default robot_<aisle>)")
	root.Flags().StringVar(&flagInventoryAddr, "inventory-addr", "", "coordinator host:port override")
	root.Flags().StringVar(&flagBroadcastAddr, "broadcast-addr", "", "broadcast host:port override")
	root.Flags().DurationVar(&flagWorkDelay, "work-delay", -1, "simulated picking time override")
	_ = root.MarkFlagRequired("aisle")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Errorf("%v", err))
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagInventoryAddr != "" {
		cfg.Robot.InventoryAddr = flagInventoryAddr
	}
	if flagBroadcastAddr != "" {
		cfg.Robot.BroadcastAddr = flagBroadcastAddr
	}
	workDelay := cfg.Robot.WorkDelay()
	if flagWorkDelay >= 0 {
		workDelay = flagWorkDelay
	}

	aisle, ok := catalog.ParseAisle(flagAisle)
	if !ok {
		return fmt.Errorf("unknown aisle %q", flagAisle)
	}
	robotID := flagRobotID
	if robotID == "" {
		robotID = "robot_" + string(aisle)
	}
	log := logging.New(robotID, cfg.Logging.Level)

	sub, err := broadcast.Subscribe(cfg.Robot.BroadcastAddr,
		inventory.TopicFetch, inventory.TopicRestock)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", cfg.Robot.BroadcastAddr, err)
	}
	defer sub.Close()

	r := robot.New(robot.Options{
		ID:        robotID,
		Aisle:     aisle,
		WorkDelay: workDelay,
		Report:    robot.HTTPReport(cfg.Robot.InventoryAddr),
		Logger:    log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
		sub.Close()
	}()

	fmt.Println(styles.Headerf("%s (%s aisle)", robotID, aisle))
	r.Run(ctx, sub)
	log.Info("robot stopped")
	return nil
}
