// Package cli implements the mechvalid command line: local validation runs,
// job submission, seed expansion and corpus inspection.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configPath string

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "mechvalid",
		Short:         "Score curated reaction rules against observed enzymatic reactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: environment only)")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newSubmitCmd())
	root.AddCommand(newExpandCmd())
	root.AddCommand(newCorpusCmd())

	return root.Execute()
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromEnv()
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}
