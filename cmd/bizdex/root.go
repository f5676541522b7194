package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizdex/internal/config"
	logpkg "github.com/kailas-cloud/bizdex/internal/logger"
)

// app carries what every subcommand needs after config loading.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bizdex",
		Short: "bizdex - local business directory with text and geo search",
		Long: `bizdex stores business listings and serves text, category and
radius search over a pluggable index (Redis Stack, Elasticsearch,
OpenSearch or an embedded bleve index).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.env, "env", config.GetEnv(), "config environment (local, dev, prod)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newSeedCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLoggerWithFile(a.env, logpkg.FileOutput{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
