package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/TileAtlas/internal/model"
)

var (
	previewBackground = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	previewFree       = color.NRGBA{R: 60, G: 90, B: 60, A: 255}
	previewOutline    = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
)

// ExportPreviewPNG renders every page as a PNG named page-N.png inside dir.
// Tiles are filled in the report colors and labelled when they are large
// enough. It returns the written file paths in page order.
func ExportPreviewPNG(dir string, result model.PackResult) ([]string, error) {
	if len(result.Pages) == 0 {
		return nil, ErrNoPages
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	paths := make([]string, 0, len(result.Pages))
	for _, page := range result.Pages {
		path := filepath.Join(dir, pageImageName(page.Page.Index))
		if err := writePNG(path, RenderPage(page)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderPage draws one atlas page at texel resolution.
func RenderPage(page model.PageResult) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, page.Page.Width, page.Page.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	for _, r := range page.FreeRegions {
		rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
		draw.Draw(img, rect, image.NewUniform(previewFree), image.Point{}, draw.Src)
	}

	for i, p := range page.Placements {
		col := tileColors[i%len(tileColors)]
		rect := image.Rect(p.X, p.Y, p.Right(), p.Bottom())
		fill := color.NRGBA{R: uint8(col.R), G: uint8(col.G), B: uint8(col.B), A: 255}
		draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)
		strokeRect(img, rect, previewOutline)
		drawLabel(img, rect, p.Sprite.Label)
	}
	return img
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawLabel writes text centered in r when it fits.
func drawLabel(img *image.NRGBA, r image.Rectangle, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	if w+4 > r.Dx() || h+4 > r.Dy() {
		return
	}
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()+h)/2 - face.Metrics().Descent.Ceil()
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
