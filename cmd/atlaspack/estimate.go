package main

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/TileAtlas/internal/engine"
)

var estimateWaste float64

func init() {
	cmd := newEstimateCmd()
	cmd.Flags().Float64Var(&estimateWaste, "waste", 15, "Expected waste in percent")
	rootCmd.AddCommand(cmd)
}

func newEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <input>...",
		Short: "Forecast the page count from sprite area",
		Long: `The estimate command sums the padded sprite area and divides it by the
page area. It runs no packing and gives a lower bound.

Example:
  atlaspack estimate sprites.csv --page-width 512 --page-height 512`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := buildSettings(cmd.Flags(), loadPresets())
			if err != nil {
				return err
			}
			sprites, err := loadSprites(args, dxfScale)
			if err != nil {
				return err
			}
			est := engine.New(settings).Estimate(sprites, estimateWaste)
			if format == "json" {
				return printJSON(est)
			}
			printInfo("Padded sprite area: %d px\n", est.TotalSpriteArea)
			printInfo("Page area:          %d px\n", est.PageArea)
			printInfo("Exact pages:        %.2f\n", est.PagesNeededExact)
			printInfo("Minimum pages:      %d\n", est.PagesNeededMin)
			printInfo("With %.0f%% waste:    %d\n", est.WastePercent, est.PagesWithWaste)
			if est.Oversized > 0 {
				printInfo("Oversized sprites:  %d\n", est.Oversized)
			}
			return nil
		},
	}
}
