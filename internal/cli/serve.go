package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/osa911/formrelay/internal/server"
	"github.com/osa911/formrelay/internal/version"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay HTTP server",
	Long: `Run the relay HTTP server until SIGINT or SIGTERM is received. Pending
deliveries are drained before the process exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("Starting formrelay %s in %s mode", version.Version, cfg.Environment)
		return server.Run(ctx, cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// version needs no configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "formrelay "+version.Info())
	},
}
