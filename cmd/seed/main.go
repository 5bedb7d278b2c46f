// cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"job-board/internal/config"
	"job-board/internal/infra"
	"job-board/internal/seed"
	"job-board/internal/usecase"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample job postings into the configured store",
		Long: "Load the sample job postings into the store selected by the configuration.\n" +
			"An existing store is left alone unless --reset is given.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
				return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
			}
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

			ctx := cmd.Context()
			repo, err := infra.OpenJobRepository(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := usecase.NewJobService(repo, nil, logger)
			_, err = seed.Run(ctx, svc, reset, logger)
			return err
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "delete every stored posting before seeding")
	return cmd
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
