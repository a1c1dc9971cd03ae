package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/console"
	"github.com/2beens/healthtracker/internal/dashboard"
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func SetupCommands(in io.Reader, out io.Writer) *cobra.Command {
	var logLevel string

	// root command
	rootCmd := &cobra.Command{
		Use:           "healthtracker",
		Short:         "Track daily steps, water, sleep and BMI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: false,
				LogLevel:    logLevel,
				Environment: "cli",
			})
			// keep stdout for the prompts
			log.SetOutput(os.Stderr)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level [trace | debug | info | warn | error]")

	var (
		outDir      string
		policyName  string
		chartWidth  int
		chartHeight int
	)

	// interactive session, one submission per round
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive tracking session",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := history.ParsePolicy(policyName)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			session := dashboard.NewSession(policy, nil, nil)
			prompter := console.NewPrompter(
				in,
				out,
				session,
				charts.NewRenderer(chartWidth, chartHeight),
				outDir,
			)
			log.Debugf("session started, policy %s, charts dir [%s]", policy, outDir)
			return prompter.Run(ctx)
		},
	}
	sessionCmd.Flags().StringVar(&outDir, "out", "", "directory to write the chart PNGs to (disabled when empty)")
	sessionCmd.Flags().StringVar(&policyName, "policy", string(history.PolicyOverwriteLast), "history policy [overwrite_last | rolling]")
	sessionCmd.Flags().IntVar(&chartWidth, "chart-width", charts.DefaultChartWidth, "chart width in pixels")
	sessionCmd.Flags().IntVar(&chartHeight, "chart-height", charts.DefaultChartHeight, "chart height in pixels")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	// add commands
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetOut(out)

	return rootCmd
}
