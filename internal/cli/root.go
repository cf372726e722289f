package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Readiness/internal/config"
)

// NewRootCmd builds the readyctl command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "readyctl",
		Short: "Score recurring tasks for automation readiness",
		Long: `readyctl scores a file of recurring tasks offline with the same engine
the readiness server uses, and renders explanations, summaries and reports.

Task files are YAML or JSON: either a list of tasks or a document with a
top-level "tasks" key.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to readiness config file")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(scoreCmd(load))
	rootCmd.AddCommand(explainCmd(load))
	rootCmd.AddCommand(summaryCmd(load))
	rootCmd.AddCommand(exportCmd(load))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

type configLoader func() (*config.Config, error)

func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
