package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bank-account-ledger/internal/config"
	"github.com/bank-account-ledger/internal/logger"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has loaded config
type app struct {
	configName string
	cfg        *config.Config
	log        *slog.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Bank account ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configName)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.log = logger.NewLogger(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configName, "config", "ledger", "base name of the .env configuration file")

	root.AddCommand(serveCommand(a))
	root.AddCommand(workerCommand(a))
	root.AddCommand(migrateCommand(a))

	if err := root.Execute(); err != nil {
		// logger may not be initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(1)
	}
}

// signalContext is canceled on SIGINT, SIGTERM or SIGQUIT
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}
