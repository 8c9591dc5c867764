package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brokersim",
	Short: "A multi-user paper stock brokerage simulator",
	Long: `Brokersim is a multi-user paper brokerage simulator written in Go.

It provides:
  - A periodic market simulator driving a random-walk over a fixed set of tickers
  - SMA(20) analytics and per-user portfolio valuation on every tick
  - A snapshot broadcaster with bounded per-subscriber queues
  - Buy/sell order handling with cash and holdings accounting
  - Order and equity journaling to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
