package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/TileAtlas/internal/engine"
	"github.com/piwi3910/TileAtlas/internal/model"
)

// parseSpriteForm validates the add/edit sprite form fields.
func parseSpriteForm(label, width, height, qty string) (model.Sprite, error) {
	w, errW := strconv.Atoi(strings.TrimSpace(width))
	h, errH := strconv.Atoi(strings.TrimSpace(height))
	q, errQ := strconv.Atoi(strings.TrimSpace(qty))
	if errW != nil || errH != nil || errQ != nil {
		return model.Sprite{}, fmt.Errorf("width, height, and quantity must be whole numbers")
	}
	if w <= 0 || h <= 0 || q <= 0 {
		return model.Sprite{}, fmt.Errorf("width, height, and quantity must be > 0")
	}
	if w > model.MaxPageSize || h > model.MaxPageSize {
		return model.Sprite{}, fmt.Errorf("sprite size must not exceed %d px", model.MaxPageSize)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Sprite{}, fmt.Errorf("label must not be empty")
	}
	return model.NewSprite(label, w, h, q), nil
}

// parseSettingsForm reads the settings panel entries into s. s is left
// unchanged when any field is invalid.
func parseSettingsForm(s *model.AtlasSettings, width, height, padding, maxPages, sortOrder string) error {
	next := *s
	var err error
	if next.PageWidth, err = strconv.Atoi(strings.TrimSpace(width)); err != nil {
		return fmt.Errorf("invalid page width %q", width)
	}
	if next.PageHeight, err = strconv.Atoi(strings.TrimSpace(height)); err != nil {
		return fmt.Errorf("invalid page height %q", height)
	}
	if next.Padding, err = strconv.Atoi(strings.TrimSpace(padding)); err != nil {
		return fmt.Errorf("invalid padding %q", padding)
	}
	if next.MaxPages, err = strconv.Atoi(strings.TrimSpace(maxPages)); err != nil {
		return fmt.Errorf("invalid page limit %q", maxPages)
	}
	if next.SortOrder, err = model.ParseSortOrder(sortOrder); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// formatComparison renders scenario results as aligned text lines, best
// (fewest pages, then least waste) marked with an asterisk.
func formatComparison(results []engine.ComparisonResult) []string {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 || r.PagesUsed < results[best].PagesUsed ||
			(r.PagesUsed == results[best].PagesUsed && r.WastePercent < results[best].WastePercent) {
			best = i
		}
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		mark := " "
		if i == best {
			mark = "*"
		}
		if r.Err != nil {
			lines = append(lines, fmt.Sprintf("%s %-24s error: %v", mark, r.Scenario.Name, r.Err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %-24s %3d pages  %5.1f%% waste  %d unplaced",
			mark, r.Scenario.Name, r.PagesUsed, r.WastePercent, r.UnplacedCount))
	}
	return lines
}

// formatEstimate renders an area estimate for the estimate dialog.
func formatEstimate(est model.PageEstimate) string {
	return fmt.Sprintf(
		"Padded sprite area: %d px\nPage area: %d px\nExact pages: %.2f\nMinimum pages: %d\nWith %.0f%% waste: %d\nOversized sprites: %d",
		est.TotalSpriteArea, est.PageArea, est.PagesNeededExact, est.PagesNeededMin,
		est.WastePercent, est.PagesWithWaste, est.Oversized,
	)
}

// powerOfTwoHint warns about page sizes that some GPUs cannot mipmap.
func powerOfTwoHint(s model.AtlasSettings) string {
	if s.IsPowerOfTwo() {
		return ""
	}
	return fmt.Sprintf("%dx%d is not a power-of-two size; older GPUs and mipmapping may need e.g. 1024x1024.",
		s.PageWidth, s.PageHeight)
}

// formatPlacements lists each placed copy of s, one per line.
func formatPlacements(s model.Sprite, placements []model.Placement) string {
	if len(placements) == 0 {
		return fmt.Sprintf("%s was not placed.", s.Label)
	}
	lines := make([]string, 0, len(placements)+1)
	lines = append(lines, fmt.Sprintf("%d of %d copies placed:", len(placements), s.Quantity))
	for _, p := range placements {
		lines = append(lines, fmt.Sprintf("Page %d at (%d, %d)", p.Page+1, p.X, p.Y))
	}
	return strings.Join(lines, "\n")
}
