package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/piwi3910/TileAtlas/internal/atlas"
	"github.com/piwi3910/TileAtlas/internal/model"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = "1.0"

// Manifest describes a packed atlas in a form game engines can load.
type Manifest struct {
	Version    string          `json:"version"`
	Generator  string          `json:"generator"`
	Efficiency float64         `json:"efficiency"`
	Pages      []ManifestPage  `json:"pages"`
	Frames     []ManifestFrame `json:"frames"`
	Unplaced   []string        `json:"unplaced,omitempty"`
}

// ManifestPage is one atlas page. Image names match ExportPreviewPNG output.
type ManifestPage struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Label  string `json:"label"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ManifestFrame is one placed sprite.
type ManifestFrame struct {
	Name   string       `json:"name"`
	ID     string       `json:"id"`
	Page   int          `json:"page"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"w"`
	Height int          `json:"h"`
	UV     atlas.UVRect `json:"uv"`
}

// BuildManifest converts a packing result into a Manifest.
func BuildManifest(result model.PackResult) Manifest {
	m := Manifest{
		Version:    ManifestVersion,
		Generator:  "TileAtlas",
		Efficiency: math.Round(result.TotalEfficiency()*100) / 100,
		Pages:      make([]ManifestPage, 0, len(result.Pages)),
		Frames:     make([]ManifestFrame, 0, result.PlacementCount()),
	}

	for _, page := range result.Pages {
		m.Pages = append(m.Pages, ManifestPage{
			Index:  page.Page.Index,
			ID:     page.Page.ID,
			Label:  page.Page.Label,
			Image:  pageImageName(page.Page.Index),
			Width:  page.Page.Width,
			Height: page.Page.Height,
		})
		for _, p := range page.Placements {
			m.Frames = append(m.Frames, ManifestFrame{
				Name:   p.Sprite.Label,
				ID:     p.Sprite.ID,
				Page:   p.Page,
				X:      p.X,
				Y:      p.Y,
				Width:  p.Sprite.Width,
				Height: p.Sprite.Height,
				UV:     p.UV,
			})
		}
	}

	for _, s := range result.Unplaced {
		m.Unplaced = append(m.Unplaced, s.Label)
	}
	return m
}

// ExportManifest writes BuildManifest(result) as indented JSON.
func ExportManifest(path string, result model.PackResult) error {
	if len(result.Pages) == 0 {
		return ErrNoPages
	}
	data, err := json.MarshalIndent(BuildManifest(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func pageImageName(index int) string {
	return fmt.Sprintf("page-%d.png", index+1)
}
