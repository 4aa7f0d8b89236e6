package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/TileAtlas/internal/model"
)

// dxfPageGap is the horizontal gap between pages in drawing units (texels).
const dxfPageGap = 32

// ExportDXF writes the outline of every page and tile to a DXF drawing.
// Pages are laid out left to right. The drawing's Y axis points up, so
// page coordinates are flipped.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Pages) == 0 {
		return ErrNoPages
	}

	d := dxf.NewDrawing()
	offsetX := 0.0
	for _, page := range result.Pages {
		h := float64(page.Page.Height)
		if err := dxfRect(d, offsetX, 0, float64(page.Page.Width), h); err != nil {
			return fmt.Errorf("failed to draw %s: %w", page.Page.Label, err)
		}
		for _, p := range page.Placements {
			x := offsetX + float64(p.X)
			y := h - float64(p.Bottom())
			if err := dxfRect(d, x, y, float64(p.Sprite.Width), float64(p.Sprite.Height)); err != nil {
				return fmt.Errorf("failed to draw %s: %w", p.Sprite.Label, err)
			}
		}
		offsetX += float64(page.Page.Width + dxfPageGap)
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// dxfRect draws an axis-aligned rectangle as four LINE entities.
func dxfRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
