package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quellen/scene-tier-pipeline/internal/pipeline"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the resolved tier table",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIMPLIFY\tTEXTURE\tMESH COMPRESSION\tSTEPS")
		for _, t := range cfg.Tiers {
			steps := pipeline.BuildSequence(t, cfg.TextureFormat).Kinds()
			fmt.Fprintf(w, "%s\t%g\t%d\t%v\t%v\n",
				t.Name, t.SimplifyRatio, t.TextureSize, t.MeshCompression, steps)
		}
		return w.Flush()
	},
}
