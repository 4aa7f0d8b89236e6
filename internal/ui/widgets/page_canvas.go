package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TileAtlas/internal/model"
)

// Tile colors, cycled for visual distinction.
var tileColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

// PageCanvas renders one atlas page with its tiles and free regions.
type PageCanvas struct {
	widget.BaseWidget
	page      model.PageResult
	showFree  bool
	maxWidth  float32
	maxHeight float32
}

func NewPageCanvas(page model.PageResult, showFree bool, maxW, maxH float32) *PageCanvas {
	pc := &PageCanvas{
		page:      page,
		showFree:  showFree,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPageCanvasRenderer(pc)
}

// scale returns the factor that fits the page inside the max bounds.
func (pc *PageCanvas) scale() float32 {
	w := float32(pc.page.Page.Width)
	h := float32(pc.page.Page.Height)
	if w == 0 || h == 0 {
		return 0
	}
	return min(pc.maxWidth/w, pc.maxHeight/h)
}

type pageCanvasRenderer struct {
	pc      *PageCanvas
	objects []fyne.CanvasObject
}

func newPageCanvasRenderer(pc *PageCanvas) *pageCanvasRenderer {
	r := &pageCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *pageCanvasRenderer) rebuild() {
	r.objects = nil

	page := r.pc.page
	scale := r.pc.scale()
	canvasW := float32(page.Page.Width) * scale
	canvasH := float32(page.Page.Height) * scale

	bg := canvas.NewRectangle(color.NRGBA{R: 45, G: 45, B: 45, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)

	if r.pc.showFree {
		r.drawFreeRegions(page.FreeRegions, scale)
	}

	for i, p := range page.Placements {
		col := tileColors[i%len(tileColors)]
		pw := float32(p.Sprite.Width) * scale
		ph := float32(p.Sprite.Height) * scale
		px := float32(p.X) * scale
		py := float32(p.Y) * scale

		tileRect := canvas.NewRectangle(col)
		tileRect.Resize(fyne.NewSize(pw, ph))
		tileRect.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, tileRect)

		tileBorder := canvas.NewRectangle(color.Transparent)
		tileBorder.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		tileBorder.StrokeWidth = 1
		tileBorder.Resize(fyne.NewSize(pw, ph))
		tileBorder.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, tileBorder)

		if pw > 30 && ph > 16 {
			label := canvas.NewText(
				fmt.Sprintf("%s %dx%d", p.Sprite.Label, p.Sprite.Width, p.Sprite.Height),
				color.Black,
			)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, label)
		}
	}
}

// drawFreeRegions shades the space that can still take tiles.
func (r *pageCanvasRenderer) drawFreeRegions(regions []model.FreeRegion, scale float32) {
	for _, fr := range regions {
		zone := canvas.NewRectangle(color.NRGBA{R: 80, G: 200, B: 80, A: 60})
		zone.StrokeColor = color.NRGBA{R: 80, G: 200, B: 80, A: 160}
		zone.StrokeWidth = 1
		zone.Resize(fyne.NewSize(float32(fr.Width)*scale, float32(fr.Height)*scale))
		zone.Move(fyne.NewPos(float32(fr.X)*scale, float32(fr.Y)*scale))
		r.objects = append(r.objects, zone)
	}
}

func (r *pageCanvasRenderer) Layout(size fyne.Size)        {}
func (r *pageCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *pageCanvasRenderer) Destroy()                     {}
func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pageCanvasRenderer) MinSize() fyne.Size {
	scale := r.pc.scale()
	return fyne.NewSize(float32(r.pc.page.Page.Width)*scale, float32(r.pc.page.Page.Height)*scale)
}

// RenderPageResults creates a scrollable container of all atlas pages.
func RenderPageResults(result *model.PackResult, showFree bool) fyne.CanvasObject {
	if result == nil || len(result.Pages) == 0 {
		return widget.NewLabel("No results yet. Add sprites, then click Pack.")
	}

	var items []fyne.CanvasObject

	for _, page := range result.Pages {
		header := widget.NewLabel(fmt.Sprintf(
			"%s (%d x %d): %d sprites, %.1f%% efficiency",
			page.Page.Label, page.Page.Width, page.Page.Height,
			len(page.Placements), page.Efficiency(),
		))
		header.TextStyle = fyne.TextStyle{Bold: true}

		items = append(items, header, NewPageCanvas(page, showFree, 600, 600), widget.NewSeparator())
	}

	if len(result.Unplaced) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d sprites could not be placed. Raise the page size or the page limit.",
			len(result.Unplaced),
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}

	if lines := FreeSpaceSummary(result); len(lines) > 0 {
		items = append(items, widget.NewSeparator())
		freeHeader := widget.NewLabel("Free Space:")
		freeHeader.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, freeHeader)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d pages used, %d sprites placed, %.1f%% overall efficiency",
		len(result.Pages), result.PlacementCount(), result.TotalEfficiency(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

// FreeSpaceSummary reports the free area and largest free region of each page.
func FreeSpaceSummary(result *model.PackResult) []string {
	if result == nil {
		return nil
	}
	var lines []string
	for _, page := range result.Pages {
		regions := model.FilterFreeRegions(page.FreeRegions, 1)
		if len(regions) == 0 {
			continue
		}
		largest := regions[0]
		lines = append(lines, fmt.Sprintf(
			"  %s: %d px free, largest region %dx%d at (%d, %d)",
			page.Page.Label, model.TotalFreeArea(page.FreeRegions),
			largest.Width, largest.Height, largest.X, largest.Y,
		))
	}
	return lines
}
