package model

import "math"

// PageEstimate holds a quick area-based forecast of how many pages a sprite
// list needs, before running the packer.
type PageEstimate struct {
	TotalSpriteArea  int     `json:"total_sprite_area"`  // Padded area of all sprites (texels)
	PageArea         int     `json:"page_area"`          // Area of one page (texels)
	PagesNeededExact float64 `json:"pages_needed_exact"` // Exact fractional number of pages
	PagesNeededMin   int     `json:"pages_needed_min"`   // Lower bound (ceiling of exact)
	PagesWithWaste   int     `json:"pages_with_waste"`   // Lower bound with the waste factor applied
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g. 15 for 15%)
	Padding          int     `json:"padding"`            // Padding used in the calculation
	Oversized        int     `json:"oversized"`          // Sprite instances larger than a page
}

// CalculatePageEstimate computes a lower bound on pages for the given sprites.
// Sprites that cannot fit on a page are counted in Oversized and excluded.
func CalculatePageEstimate(sprites []Sprite, pageWidth, pageHeight, padding int, wastePercent float64) PageEstimate {
	est := PageEstimate{WastePercent: wastePercent, Padding: padding}

	for _, s := range sprites {
		if s.Width > pageWidth || s.Height > pageHeight {
			est.Oversized += s.Quantity
			continue
		}
		w := min(s.Width+padding, pageWidth)
		h := min(s.Height+padding, pageHeight)
		est.TotalSpriteArea += w * h * s.Quantity
	}

	est.PageArea = pageWidth * pageHeight
	if est.PageArea <= 0 {
		return est
	}

	est.PagesNeededExact = float64(est.TotalSpriteArea) / float64(est.PageArea)
	est.PagesNeededMin = int(math.Ceil(est.PagesNeededExact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	est.PagesWithWaste = int(math.Ceil(est.PagesNeededExact * wasteFactor))
	if est.PagesWithWaste < est.PagesNeededMin {
		est.PagesWithWaste = est.PagesNeededMin
	}
	return est
}
