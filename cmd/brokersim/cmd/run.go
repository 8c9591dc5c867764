package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"brokersim/broker"
	"brokersim/config"
	"brokersim/journal"
	"brokersim/ledger"
	"brokersim/market"
	"brokersim/pubsub"
	"brokersim/sim"
	"brokersim/watchlist"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the market simulator",
	Long: `Run the paper brokerage simulator using settings from a configuration
file, or the built-in defaults when no file is given. Environment
variables prefixed BROKERSIM_ override either.

The command subscribes to its own snapshot stream and prints a summary
line per tick until interrupted.

Example:
  brokersim run -f examples/configs/default.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runWatchUser  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVarP(&runWatchUser, "user", "u", "", "print this user's portfolio with each tick")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var jrnl journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		jrnl, err = journal.NewCSV(cfg.Journal.OrdersFile, cfg.Journal.EquityFile)
	case "sqlite":
		jrnl, err = journal.NewSQLite(cfg.Journal.DBPath)
	default:
		jrnl = journal.NewMemory()
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	seed := cfg.Market.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	prices := market.NewPriceStore(cfg.Market.HistoryCapacity, cfg.Market.PriceFloor)
	prices.SeedAll(cfg.Market.InitialPrices, rng)

	led := ledger.NewLedger(cfg.Ledger.ReferenceCost)
	for _, acct := range cfg.Ledger.Accounts {
		led.SeedAccount(acct.UserID, acct.Cash, acct.Holdings)
	}

	interval, _ := cfg.Market.Interval()
	bus := pubsub.NewBroadcaster(cfg.Broadcast.BufferSize)
	engine := sim.NewEngine(sim.Config{
		TickInterval:  interval,
		SMAWindow:     cfg.Market.SMAWindow,
		DriftPerMille: cfg.Market.DriftPerMille,
		Seed:          seed,
	}, prices, led, watchlist.NewRegistry(), bus, jrnl, logger)

	desk := broker.NewDesk(engine)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine.Start(ctx)
	defer engine.Stop()

	sub := desk.SubscribeStream("console")
	defer desk.Unsubscribe(sub.ID)

	fmt.Printf("Simulating %d instruments every %s (journal: %s)\n",
		len(market.Instruments), interval, cfg.Journal.Type)
	fmt.Println("Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down.")
			return nil
		case snap, ok := <-sub.C:
			if !ok {
				return nil
			}
			printSnapshot(snap)
		}
	}
}

func printSnapshot(snap *pubsub.Snapshot) {
	fmt.Printf("[%s]", snap.Time.Format("15:04:05"))
	for _, sym := range market.Symbols() {
		fmt.Printf(" %s=%.2f", sym, snap.Prices[sym])
		if a := snap.Analysis[sym]; a.Ready {
			fmt.Printf(" (sma %.2f)", a.SMA)
		}
	}
	fmt.Println()

	if runWatchUser == "" {
		return
	}
	if v, ok := snap.Portfolios[runWatchUser]; ok {
		fmt.Printf("  %s: cash=%.2f stock=%.2f total=%.2f pl=%+.2f\n",
			v.UserID, v.Cash, v.StockValue, v.TotalValue, v.TotalPL)
	}
}
