package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/TileAtlas/internal/model"
)

const (
	tilesSheet = "Tiles"
	pagesSheet = "Pages"
)

var (
	tileHeaders = []interface{}{"Page", "Label", "ID", "X", "Y", "Width", "Height", "U0", "V0", "U1", "V1", "Source"}
	pageHeaders = []interface{}{"Page", "Label", "ID", "Width", "Height", "Sprites", "Used Area", "Efficiency %", "Free Regions"}
)

// ExportExcel writes the packing result to an Excel workbook with a
// "Tiles" sheet (one row per placement) and a "Pages" sheet.
func ExportExcel(path string, result model.PackResult) error {
	if len(result.Pages) == 0 {
		return ErrNoPages
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tilesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(pagesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, tilesSheet, 1, tileHeaders); err != nil {
		return err
	}
	row := 2
	for _, page := range result.Pages {
		for _, p := range page.Placements {
			values := []interface{}{
				page.Page.Index + 1, p.Sprite.Label, p.Sprite.ID,
				p.X, p.Y, p.Sprite.Width, p.Sprite.Height,
				p.UV.U0, p.UV.V0, p.UV.U1, p.UV.V1,
				p.Sprite.Source,
			}
			if err := writeRow(f, tilesSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	if err := writeRow(f, pagesSheet, 1, pageHeaders); err != nil {
		return err
	}
	for i, page := range result.Pages {
		values := []interface{}{
			page.Page.Index + 1, page.Page.Label, page.Page.ID,
			page.Page.Width, page.Page.Height, len(page.Placements),
			page.UsedArea(), math.Round(page.Efficiency()*10) / 10, len(page.FreeRegions),
		}
		if err := writeRow(f, pagesSheet, i+2, values); err != nil {
			return err
		}
	}

	for sheet, n := range map[string]int{tilesSheet: len(tileHeaders), pagesSheet: len(pageHeaders)} {
		last, _ := excelize.CoordinatesToCellName(n, 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	_ = f.SetColWidth(tilesSheet, "B", "B", 24)
	_ = f.SetColWidth(tilesSheet, "L", "L", 40)
	_ = f.SetColWidth(pagesSheet, "B", "B", 16)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
