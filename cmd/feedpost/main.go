package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "feedpost",
		Short: "Relay new RSS/Atom feed entries to a Discord webhook",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: environment only)")

	root.AddCommand(runCmd())
	root.AddCommand(onceCmd())
	root.AddCommand(statusCmd())

	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the polling daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
}

func onceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single polling cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce()
		},
	}
}

func statusCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ledger totals and recently posted items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max recent items to show")
	return cmd
}
