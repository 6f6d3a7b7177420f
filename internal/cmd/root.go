package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/bugsnag/bugsnag-go/v2"
	_ "github.com/heroku/x/hmetrics/onload"
	"github.com/spf13/cobra"

	"github.com/bomis-pampore/website-backend/internal/config"
)

func Execute(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cfg.BugsnagAPIKey != "" {
		bugsnag.Configure(bugsnag.Configuration{
			APIKey:          cfg.BugsnagAPIKey,
			ReleaseStage:    cfg.Environment,
			ProjectPackages: []string{"main", "github.com/bomis-pampore/website-backend"},
		})
	}

	profile := false

	rootCmd := &cobra.Command{
		Use:   "bomis",
		Short: "Serves the BOMIS Pampore website and delivers its contact form.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !profile {
				return nil
			}

			f, perr := os.Create("cpu.pprof")
			if perr != nil {
				return perr
			}

			_ = pprof.StartCPUProfile(f)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !profile {
				return nil
			}

			pprof.StopCPUProfile()

			f, perr := os.Create("mem.pprof")
			if perr != nil {
				return perr
			}
			defer f.Close()

			runtime.GC()
			err := pprof.WriteHeapProfile(f)
			return err
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&profile, "profile", "p", false, "record CPU pprof")

	rootCmd.AddCommand(APICmd(ctx, cfg))
	rootCmd.AddCommand(MailTestCmd(ctx, cfg))

	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}
