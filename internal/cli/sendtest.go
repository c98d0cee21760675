package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/osa911/formrelay/internal/api/validation"
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/service"
	"github.com/osa911/formrelay/internal/templates"
	"github.com/osa911/formrelay/internal/tenant"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var sendTestCmd = &cobra.Command{
	Use:   "send-test <transporter-id> <recipient>",
	Short: "Send a test message through a transporter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		transporterID, recipient := args[0], args[1]
		if !validation.IsValidEmail(recipient) {
			return fmt.Errorf("invalid recipient %q", recipient)
		}

		registry, err := tenant.Load(cfg.AppsFile)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DeliveryTimeout)
		defer cancel()

		pool, err := mailer.NewPool(ctx, registry)
		if err != nil {
			return fmt.Errorf("failed to create transporters: %w", err)
		}
		localizer, err := i18n.New(cfg.DefaultLocale)
		if err != nil {
			return err
		}
		mail := service.NewMailService(registry, pool, templates.NewRenderer(cfg.ViewsDir), localizer)

		// Spinner while sending
		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Sending test message via %s...", transporterID)
		s.Start()
		err = mail.SendTestEmail(ctx, transporterID, recipient)
		s.Stop()

		if err != nil {
			return fmt.Errorf("test message failed: %w", err)
		}

		logger.Info("Test message sent to %s via %s", logging.RedactEmail(recipient), transporterID)
		return nil
	},
}
