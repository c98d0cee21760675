package cli

import (
	"fmt"
	"strings"

	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/templates"
	"github.com/osa911/formrelay/internal/tenant"

	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the apps file and templates",
	Long: `Load the apps file, build every transporter and render both e-mail
templates with sample data. Exits non-zero on the first problem found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := tenant.Load(cfg.AppsFile)
		if err != nil {
			return err
		}

		if _, err := mailer.NewPool(cmd.Context(), registry); err != nil {
			return fmt.Errorf("failed to create transporters: %w", err)
		}

		mail, _, err := newPreviewMailService(registry)
		if err != nil {
			return err
		}
		for _, name := range []string{templates.Admin, templates.Confirmation} {
			if _, err := renderPreview(mail, name, previewApp(), previewOptions{}); err != nil {
				return fmt.Errorf("template %s: %w", name, err)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Apps (%d):\n", len(registry.Apps()))
		for _, app := range registry.Apps() {
			fmt.Fprintf(out, "  %-20s %s\n", app.ID, describeApp(app))
		}
		fmt.Fprintf(out, "Templates: %s\n", strings.Join(templates.NewRenderer(cfg.ViewsDir).Names(), ", "))
		fmt.Fprintf(out, "Transporters (%d):\n", len(registry.Transporters()))
		for _, t := range registry.Transporters() {
			fmt.Fprintf(out, "  %-20s %s\n", t.ID, describeTransporter(t))
		}

		logger.Info("Configuration %s is valid", cfg.AppsFile)
		return nil
	},
}

func describeApp(app *tenant.App) string {
	var channels []string
	if app.WebhookURL() != "" {
		channels = append(channels, "webhook")
	}
	if app.Email != "" {
		channels = append(channels, "email via "+app.SMTP)
	}
	if len(channels) == 0 {
		channels = append(channels, "no destinations")
	}

	desc := strings.Join(channels, ", ")
	switch {
	case !app.RestrictsDomains():
		desc += "; any domain"
	case len(app.Domains) == 0:
		desc += "; no domain allowed"
	default:
		desc += "; domains " + strings.Join(app.Domains, " ")
	}
	return desc
}

func describeTransporter(t *tenant.Transporter) string {
	switch t.Driver {
	case tenant.DriverSES:
		return fmt.Sprintf("ses %s from %s", t.Region, t.SenderAddress())
	default:
		mode := "starttls"
		if t.Secure {
			mode = "tls"
		}
		return fmt.Sprintf("smtp %s (%s) from %s", t.Addr(), mode, t.SenderAddress())
	}
}
