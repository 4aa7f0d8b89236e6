package main

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/TileAtlas/internal/engine"
)

func init() {
	rootCmd.AddCommand(newCompareCmd())
}

// scenarioReport is the JSON form of one comparison row.
type scenarioReport struct {
	Name         string  `json:"name"`
	PageWidth    int     `json:"page_width"`
	PageHeight   int     `json:"page_height"`
	Padding      int     `json:"padding"`
	SortOrder    string  `json:"sort_order"`
	Pages        int     `json:"pages"`
	Placed       int     `json:"placed"`
	Unplaced     int     `json:"unplaced"`
	WastePercent float64 `json:"waste_percent"`
	Error        string  `json:"error,omitempty"`
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <input>...",
		Short: "Pack under alternative settings and compare",
		Long: `The compare command packs the same sprites with the current settings,
every other sort order, half and double page sizes and without padding.

Example:
  atlaspack compare sprites.csv --page-width 1024 --page-height 1024`,
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
			reports := compareReports(engine.CompareScenarios(engine.BuildDefaultScenarios(settings), sprites))
			if format == "json" {
				return printJSON(reports)
			}
			printInfo("%-24s %11s %6s %8s %8s\n", "Scenario", "Page", "Pages", "Unplaced", "Waste")
			for _, r := range reports {
				if r.Error != "" {
					printInfo("%-24s error: %s\n", r.Name, r.Error)
					continue
				}
				printInfo("%-24s %5dx%-5d %6d %8d %7.1f%%\n",
					r.Name, r.PageWidth, r.PageHeight, r.Pages, r.Unplaced, r.WastePercent)
			}
			return nil
		},
	}
}

func compareReports(results []engine.ComparisonResult) []scenarioReport {
	reports := make([]scenarioReport, 0, len(results))
	for _, r := range results {
		s := r.Scenario.Settings
		rep := scenarioReport{
			Name:         r.Scenario.Name,
			PageWidth:    s.PageWidth,
			PageHeight:   s.PageHeight,
			Padding:      s.Padding,
			SortOrder:    string(s.SortOrder),
			Pages:        r.PagesUsed,
			Placed:       r.PlacedCount,
			Unplaced:     r.UnplacedCount,
			WastePercent: r.WastePercent,
		}
		if r.Err != nil {
			rep.Error = r.Err.Error()
		}
		reports = append(reports, rep)
	}
	return reports
}
