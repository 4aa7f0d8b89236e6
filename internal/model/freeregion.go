package model

import "sort"

// FreeRegion is an unused rectangle on a page that can still take sprites.
type FreeRegion struct {
	Page   int `json:"page"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the region area in texels.
func (r FreeRegion) Area() int {
	return r.Width * r.Height
}

// Fits reports whether a w×h sprite fits inside the region.
func (r FreeRegion) Fits(w, h int) bool {
	return w <= r.Width && h <= r.Height
}

// FilterFreeRegions drops regions whose shorter side is below minSide and
// returns the rest sorted by area, largest first.
func FilterFreeRegions(regions []FreeRegion, minSide int) []FreeRegion {
	kept := make([]FreeRegion, 0, len(regions))
	for _, r := range regions {
		if r.Width >= minSide && r.Height >= minSide && r.Area() > 0 {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Area() > kept[j].Area()
	})
	return kept
}

// TotalFreeArea sums the area of all regions.
func TotalFreeArea(regions []FreeRegion) int {
	total := 0
	for _, r := range regions {
		total += r.Area()
	}
	return total
}

// AllFreeRegions collects the free regions of every page in a result.
func AllFreeRegions(result PackResult) []FreeRegion {
	var all []FreeRegion
	for _, p := range result.Pages {
		all = append(all, p.FreeRegions...)
	}
	return all
}
