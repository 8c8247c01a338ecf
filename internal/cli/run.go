package cli

import (
	"github.com/spf13/cobra"

	"github.com/quellen/scene-tier-pipeline/internal/pipeline"
	"github.com/quellen/scene-tier-pipeline/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full optimization pass over the source directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := pipeline.New(store.NewFileStore(), cfg, pipeline.WithLogger(logger))
		if err != nil {
			return err
		}

		report, err := pipe.Run(cmd.Context())
		if err != nil {
			return err
		}

		// Per-file and per-tier failures are reported, not fatal: the run
		// completed its best-effort pass.
		for _, f := range report.Failures() {
			if f.Tier == "" {
				logger.Warn("file failed", "file", f.File, "err", f.Err)
			} else {
				logger.Warn("tier failed", "file", f.File, "tier", f.Tier, "err", f.Err)
			}
		}
		return nil
	},
}
