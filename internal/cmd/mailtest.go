package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/cmdutil"
	"github.com/bomis-pampore/website-backend/internal/config"
	"github.com/bomis-pampore/website-backend/internal/domain"
	"github.com/bomis-pampore/website-backend/internal/mail"
)

func MailTestCmd(ctx context.Context, cfg *config.Config) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "mailtest",
		Args:  cobra.ExactArgs(0),
		Short: "Sends a test email through the configured mail relay.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if to == "" {
				to = cfg.DestEmail
			}
			if to == "" {
				return fmt.Errorf("need a recipient, pass --to")
			}

			logger := cmdutil.NewLogger(cfg, true)
			defer func() { _ = logger.Sync() }()

			mailer, err := mail.New(cfg, logger)
			if err != nil {
				return err
			}

			sendCtx, cancel := context.WithTimeout(ctx, cfg.MailTimeout)
			defer cancel()

			err = mailer.Send(sendCtx, domain.Email{
				From:    domain.Address{Name: cfg.AutoReplyFromName, Email: cfg.EmailUser},
				To:      domain.Address{Email: to},
				Subject: "BOMIS mail relay test",
				HTML:    fmt.Sprintf("<p>Test message sent through the <b>%s</b> transport.</p>", cfg.MailTransport),
			})
			if err != nil {
				return err
			}

			logger.Info("sent test email", zap.String("to", to), zap.String("mail#transport", cfg.MailTransport))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient (defaults to DEST_EMAIL)")

	return cmd
}
