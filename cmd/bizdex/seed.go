package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	seeduc "github.com/kailas-cloud/bizdex/internal/usecase/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample Bengaluru listings into an empty index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			index, closeIndex, err := openIndex(ctx, a.cfg.Index, a.logger)
			if err != nil {
				return err
			}
			defer closeIndex()

			n, err := seeduc.New(index, a.cfg.Seed.Concurrency, a.logger).Run(ctx)
			if err != nil {
				return err //nolint:wrapcheck // seeder errors name the sample
			}
			a.logger.Info("Seed finished", zap.Int("written", n))
			return nil
		},
	}
}
