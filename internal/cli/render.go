package cli

import (
	"fmt"
	"time"

	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/service"
	"github.com/osa911/formrelay/internal/templates"
	"github.com/osa911/formrelay/internal/tenant"

	"github.com/spf13/cobra"
)

const previewSender = "relay@example.com"

type previewOptions struct {
	Locale  string
	Domain  string
	Name    string
	Email   string
	Subject string
	Message string
}

func (o previewOptions) submission() contact.Submission {
	sub := contact.Submission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.org",
		Subject: "Analytical engine",
		Message: "Hello,\nI would like to know more about your work.",
		Confirm: true,
	}
	if o.Name != "" {
		sub.Name = o.Name
	}
	if o.Email != "" {
		sub.Email = o.Email
	}
	if o.Subject != "" {
		sub.Subject = o.Subject
	}
	if o.Message != "" {
		sub.Message = o.Message
	}
	return sub
}

func previewApp() *tenant.App {
	return &tenant.App{ID: "preview", Name: "Preview", Email: "owner@example.com"}
}

// newPreviewMailService builds a mail service that can render but not send
func newPreviewMailService(registry *tenant.Registry) (*service.MailService, *i18n.Localizer, error) {
	localizer, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		return nil, nil, err
	}
	return service.NewMailService(registry, nil, templates.NewRenderer(cfg.ViewsDir), localizer), localizer, nil
}

// renderPreview builds the named message for app without sending it
func renderPreview(mail *service.MailService, name string, app *tenant.App, opts previewOptions) (*mailer.Message, error) {
	now := time.Now()
	switch name {
	case templates.Admin:
		return mail.BuildAdminMessage(app, previewSender, opts.submission(), now)
	case templates.Confirmation:
		domain := opts.Domain
		if domain == "" {
			domain = "example.com"
		}
		return mail.BuildConfirmationMessage(previewSender, opts.submission(), opts.Locale, domain, now)
	default:
		return nil, fmt.Errorf("%q: %w", name, templates.ErrUnknownTemplate)
	}
}

var renderOpts previewOptions

var renderCmd = &cobra.Command{
	Use:       "render <admin|confirmation>",
	Short:     "Render an e-mail template with sample data",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{templates.Admin, templates.Confirmation},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		appID, _ := cmd.Flags().GetString("app")

		app := previewApp()
		if appID != "" {
			registry, err := tenant.Load(cfg.AppsFile)
			if err != nil {
				return err
			}
			found, ok := registry.App(appID)
			if !ok {
				return fmt.Errorf("app %q: %w", appID, tenant.ErrInvalidApp)
			}
			app = found
		}

		mail, localizer, err := newPreviewMailService(nil)
		if err != nil {
			return err
		}

		opts := renderOpts
		opts.Locale = localizer.Resolve(opts.Locale, "")

		msg, err := renderPreview(mail, args[0], app, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "html":
			fmt.Fprintln(out, msg.HTML)
		case "text":
			fmt.Fprintln(out, msg.Text)
		case "mime":
			raw, err := msg.Bytes()
			if err != nil {
				return err
			}
			_, _ = out.Write(raw)
		default:
			return fmt.Errorf("unknown format %q, expected html, text or mime", format)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().String("format", "html", "output format: html, text or mime")
	renderCmd.Flags().String("app", "", "render for a configured app instead of the sample one")
	renderCmd.Flags().StringVar(&renderOpts.Locale, "locale", "", "locale of the confirmation e-mail")
	renderCmd.Flags().StringVar(&renderOpts.Domain, "domain", "", "domain the form is posted from")
	renderCmd.Flags().StringVar(&renderOpts.Name, "name", "", "submitter name")
	renderCmd.Flags().StringVar(&renderOpts.Email, "email", "", "submitter e-mail")
	renderCmd.Flags().StringVar(&renderOpts.Subject, "subject", "", "submission subject")
	renderCmd.Flags().StringVar(&renderOpts.Message, "message", "", "submission message")
}
