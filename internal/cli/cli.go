package cli

import (
	"fmt"
	"os"

	"github.com/osa911/formrelay/internal/config"
	"github.com/osa911/formrelay/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formrelay",
	Short: "formrelay - multi-tenant contact form relay",
	Long: `formrelay receives contact form submissions for the configured apps and
relays them to chat webhooks and e-mail, optionally sending the submitter a
localized confirmation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initRuntime(cmd)
	},
}

// initRuntime loads the environment configuration and the global logger
func initRuntime(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if apps, _ := cmd.Flags().GetString("apps"); apps != "" {
		c.AppsFile = apps
	}

	if err := logging.InitLogger(c.LogConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = c
	logger = logging.GetGlobalLogger()
	return nil
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	defer func() {
		if logger != nil {
			logger.Close()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("Command execution failed: %v", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("apps", "", "apps config file (default $APPS_CONFIG or config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(sendTestCmd)
	rootCmd.AddCommand(versionCmd)
}
