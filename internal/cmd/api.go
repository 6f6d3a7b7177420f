package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/api"
	"github.com/bomis-pampore/website-backend/internal/cmdutil"
	"github.com/bomis-pampore/website-backend/internal/config"
	"github.com/bomis-pampore/website-backend/internal/mail"
)

const shutdownTimeout = 30 * time.Second

func APICmd(ctx context.Context, cfg *config.Config) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "api",
		Args:  cobra.ExactArgs(0),
		Short: "Runs the website and contact form API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cmdutil.NewLogger(cfg, false)
			defer func() { _ = logger.Sync() }()

			statsd, err := cmdutil.NewStatsdClient(cfg)
			if err != nil {
				return err
			}
			defer statsd.Close()

			shutdownTracing, err := cmdutil.NewTracerProvider(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			mailer, err := mail.New(cfg, logger)
			if err != nil {
				return err
			}

			api := api.NewAPI(cfg, logger, statsd, mailer)
			srv := api.Server(cfg.Port)

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()

			logger.Info("started api",
				zap.Int("port", cfg.Port),
				zap.String("static#dir", cfg.StaticDir),
				zap.String("mail#transport", cfg.MailTransport),
			)

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")

	return cmd
}
