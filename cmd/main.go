package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/leetcoach-backend/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "leetcoach",
	Short: "Interview practice coach backend",
	Long: `leetcoach serves the review queue, daily missions, objectives
and dashboards for interview practice.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed the catalog and run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations only",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Open()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Migrate()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the embedded learning paths and objective templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Open()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Seed(cmd.Context())
	},
}

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Daily mission maintenance",
}

var generateAllCmd = &cobra.Command{
	Use:   "generate-all",
	Short: "Generate today's mission for every recently active user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Open()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Wire(cmd.Context()); err != nil {
			return err
		}
		res, err := a.Services.Mission.GenerateAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated=%d skipped=%d failed=%d total=%d\n",
			res.Generated, res.Skipped, res.Failed, res.Total)
		return nil
	},
}

func init() {
	missionsCmd.AddCommand(generateAllCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, missionsCmd)
}

func runServe(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Start()
	return a.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
