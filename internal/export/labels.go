package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/TileAtlas/internal/model"
)

// PageLabel holds the data encoded into each atlas page's QR code.
type PageLabel struct {
	PageID     string  `json:"id"`
	PageIndex  int     `json:"page"`
	PageLabel  string  `json:"label"`
	Width      int     `json:"width_px"`
	Height     int     `json:"height_px"`
	Sprites    int     `json:"sprites"`
	Efficiency float64 `json:"efficiency"`
}

const (
	qrSize       = 20.0 // QR code size in mm
	labelPadding = 2.0  // mm
)

func newPageLabel(page model.PageResult) PageLabel {
	return PageLabel{
		PageID:     page.Page.ID,
		PageIndex:  page.Page.Index,
		PageLabel:  page.Page.Label,
		Width:      page.Page.Width,
		Height:     page.Page.Height,
		Sprites:    len(page.Placements),
		Efficiency: math.Round(page.Efficiency()*10) / 10,
	}
}

// CollectPageLabels extracts label information for every page of a result.
func CollectPageLabels(result model.PackResult) []PageLabel {
	labels := make([]PageLabel, 0, len(result.Pages))
	for _, page := range result.Pages {
		labels = append(labels, newPageLabel(page))
	}
	return labels
}

// renderPageLabel draws the page's QR code with its top-left corner at x, y.
func renderPageLabel(pdf *fpdf.Fpdf, x, y float64, info PageLabel) error {
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal page label: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_page_%d_%s", info.PageIndex, info.PageID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+qrSize+labelPadding/2)
	pdf.CellFormat(qrSize, 3, info.PageID, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}
