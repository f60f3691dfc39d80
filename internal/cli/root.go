// Package cli provides the tgschema command-line interface.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/tgschema/internal/config"
	"github.com/dgallion1/tgschema/internal/logging"
)

// app carries the state shared by every subcommand.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	cleanup func() error
}

// Execute creates and runs the root command until it returns or the process
// receives SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "tgschema",
		Short:         "Extract a machine-readable schema from the Telegram Bot API reference",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.Load()
			if logLevel != "" {
				a.cfg.LogLevel = logLevel
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log, cleanup, err := logging.Setup(logging.FromConfig(a.cfg))
			if err != nil {
				return err
			}
			a.log, a.cleanup = log, cleanup
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.cleanup != nil {
				return a.cleanup()
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(
		newGenerateCommand(a),
		newServeCommand(a),
		newValidateCommand(a),
		newContractCommand(),
	)
	return rootCmd
}
