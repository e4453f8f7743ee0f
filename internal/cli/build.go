package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoplens/delivery-facts/internal/factstore"
	"github.com/shoplens/delivery-facts/internal/source"
)

var buildRebuild bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the fact table from raw CSVs (or load the cached artifact)",
	Long: `Build the denormalized fact_orders table. If a cache artifact already
exists under the processed directory it is loaded unchanged; pass
--rebuild to ignore it and recompute from the raw CSVs.

Example:
  delivery-facts build --raw-dir data/raw --processed-dir data/processed
  delivery-facts build --rebuild`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildRebuild, "rebuild", false,
		"ignore an existing cache artifact and rebuild from raw CSVs")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildRebuild {
		cfg.Build.Rebuild = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	facts, err := factstore.Get(cfg.RawDir, cfg.ProcessedDir, cfg.Build.Rebuild)
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) {
			return fmt.Errorf("%w; place the raw CSV files in %s or run "+
				"'delivery-facts seed' to generate a synthetic dataset",
				err, cfg.RawDir)
		}
		return err
	}

	cmd.Printf("Fact table ready: %d orders (%s)\n",
		len(facts), factstore.ArtifactPath(cfg.ProcessedDir))
	return nil
}
