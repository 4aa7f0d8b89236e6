package engine

import (
	"fmt"

	"github.com/piwi3910/TileAtlas/internal/atlas"
	"github.com/piwi3910/TileAtlas/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.AtlasSettings
}

// ComparisonResult holds the packing result and statistics for one scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	PagesUsed     int
	PlacedCount   int
	WastePercent  float64
	UnplacedCount int
	Err           error
}

// CompareScenarios packs the same sprites under each scenario, in order.
// A scenario that fails keeps its error in Err; the rest still run.
func CompareScenarios(scenarios []ComparisonScenario, sprites []model.Sprite) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := New(scenario.Settings).Pack(sprites)
		cr := ComparisonResult{Scenario: scenario, Result: result, Err: err}
		if err == nil {
			cr.PagesUsed = len(result.Pages)
			cr.PlacedCount = result.PlacementCount()
			cr.WastePercent = 100.0 - result.TotalEfficiency()
			cr.UnplacedCount = len(result.Unplaced)
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios varies the sort order, page size and padding of
// baseSettings to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.AtlasSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: baseSettings},
	}

	for _, order := range model.SortOrders() {
		if order == baseSettings.SortOrder {
			continue
		}
		alt := baseSettings
		alt.SortOrder = order
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Sort by %s", order),
			Settings: alt,
		})
	}

	if baseSettings.PageWidth/2 >= atlas.MinPageSize && baseSettings.PageHeight/2 >= atlas.MinPageSize {
		half := baseSettings
		half.PageWidth /= 2
		half.PageHeight /= 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Pages %dx%d (half)", half.PageWidth, half.PageHeight),
			Settings: half,
		})
	}

	if baseSettings.PageWidth*2 <= model.MaxPageSize && baseSettings.PageHeight*2 <= model.MaxPageSize {
		double := baseSettings
		double.PageWidth *= 2
		double.PageHeight *= 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Pages %dx%d (double)", double.PageWidth, double.PageHeight),
			Settings: double,
		})
	}

	if baseSettings.Padding > 0 {
		noPad := baseSettings
		noPad.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Padding",
			Settings: noPad,
		})
	}

	return scenarios
}
