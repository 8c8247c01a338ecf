// Package cli provides the scenetier command-line interface.
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quellen/scene-tier-pipeline/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	cfgPath   string
	sourceDir string
	destDir   string
	verbose   bool

	// Resolved per invocation
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scenetier",
	Short: "Batch scene optimizer producing quality tiers",
	Long: `Scenetier ingests a directory of scene files, runs a shared cleanup pass on
each, then derives independent quality tiers (texture recompression, geometry
simplification, mesh compression) and writes one output per (file, tier).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "scenetier",
		})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		path := cfgPath
		if path == "" {
			path = os.Getenv("SCENETIER_CONFIG")
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		// Flags win over file and environment.
		if sourceDir != "" {
			cfg.SourceDir = sourceDir
		}
		if destDir != "" {
			cfg.DestDir = destDir
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "source", "", "source directory override")
	rootCmd.PersistentFlags().StringVar(&destDir, "dest", "", "destination directory override")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tiersCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "err", err)
		}
		return err
	}
	return nil
}
