package export

import (
	"encoding/json"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/TileAtlas/internal/model"
)

func TestExportExcel_WritesTilesAndPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")
	require.NoError(t, ExportExcel(path, buildTestResult()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Tiles", "Pages"}, f.GetSheetList())

	tiles, err := f.GetRows("Tiles")
	require.NoError(t, err)
	require.Len(t, tiles, 5) // header + 4 placements
	assert.Equal(t, "Label", tiles[0][1])
	assert.Equal(t, "hero", tiles[1][1])
	assert.Equal(t, "128", tiles[2][3]) // tree X
	assert.Equal(t, "0.5", tiles[2][7]) // tree U0
	assert.Equal(t, "hero.png", tiles[1][11])
	assert.Equal(t, "2", tiles[4][0]) // sky is on page 2

	pages, err := f.GetRows("Pages")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "Page 1", pages[1][1])
	assert.Equal(t, "3", pages[1][5])
	assert.Equal(t, "1", pages[1][8])
}

func TestExportExcel_EmptyResult(t *testing.T) {
	err := ExportExcel(filepath.Join(t.TempDir(), "x.xlsx"), model.PackResult{})
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestBuildManifest(t *testing.T) {
	result := buildTestResult()
	result.Unplaced = []model.Sprite{{ID: "u1", Label: "boss", Width: 512, Height: 512}}

	m := BuildManifest(result)
	assert.Equal(t, ManifestVersion, m.Version)
	require.Len(t, m.Pages, 2)
	assert.Equal(t, "page-1.png", m.Pages[0].Image)
	assert.Equal(t, "page-2.png", m.Pages[1].Image)

	require.Len(t, m.Frames, 4)
	tree := m.Frames[1]
	assert.Equal(t, "tree", tree.Name)
	assert.Equal(t, 128, tree.X)
	assert.Equal(t, 96, tree.Height)
	assert.InDelta(t, 0.75, tree.UV.U1, 1e-9)
	assert.InDelta(t, 0.375, tree.UV.V1, 1e-9)
	assert.Equal(t, 1, m.Frames[3].Page)
	assert.Equal(t, []string{"boss"}, m.Unplaced)
}

func TestExportManifest_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.json")
	require.NoError(t, ExportManifest(path, buildTestResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Len(t, m.Frames, 4)
	assert.Equal(t, "sky", m.Frames[3].Name)
	assert.InDelta(t, 1.0, m.Frames[3].UV.U1, 1e-9)
}

func TestExportManifest_EmptyResult(t *testing.T) {
	err := ExportManifest(filepath.Join(t.TempDir(), "m.json"), model.PackResult{})
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExportPreviewPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")
	paths, err := ExportPreviewPNG(dir, buildTestResult())
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "page-1.png"),
		filepath.Join(dir, "page-2.png"),
	}, paths)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())

	hero := tileColors[0]
	assert.Equal(t, color.NRGBAModel.Convert(color.NRGBA{R: uint8(hero.R), G: uint8(hero.G), B: uint8(hero.B), A: 255}),
		color.NRGBAModel.Convert(img.At(2, 2)))
	assert.Equal(t, color.NRGBAModel.Convert(previewOutline), color.NRGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.NRGBAModel.Convert(previewFree), color.NRGBAModel.Convert(img.At(10, 200)))
	// Right of the coin, above the free region: unused and not reported free
	assert.Equal(t, color.NRGBAModel.Convert(previewBackground), color.NRGBAModel.Convert(img.At(240, 10)))
}

func TestRenderPage_SkipsLabelsThatDoNotFit(t *testing.T) {
	result := buildTestResult()
	result.Pages[0].Placements[2].Sprite.Label = "coin_gold"
	img := RenderPage(result.Pages[0])

	// "coin_gold" is wider than the 32x32 tile, so the center row stays filled
	coin := tileColors[2]
	want := color.NRGBA{R: uint8(coin.R), G: uint8(coin.G), B: uint8(coin.B), A: 255}
	for x := 194; x < 222; x++ {
		assert.Equal(t, want, img.NRGBAAt(x, 16))
	}
}

func TestExportPreviewPNG_EmptyResult(t *testing.T) {
	_, err := ExportPreviewPNG(t.TempDir(), model.PackResult{})
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExportDXF_DrawsOutlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.dxf")
	require.NoError(t, ExportDXF(path, buildTestResult()))

	d, err := dxf.Open(path)
	require.NoError(t, err)
	// 2 pages + 4 tiles, four lines each
	assert.Len(t, d.Entities(), 24)
}

func TestExportDXF_EmptyResult(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), model.PackResult{})
	assert.ErrorIs(t, err, ErrNoPages)
}
