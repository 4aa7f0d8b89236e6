package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/TileAtlas/internal/engine"
	"github.com/piwi3910/TileAtlas/internal/export"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
)

// packOutputs names the files pack writes. Empty fields are skipped.
type packOutputs struct {
	PDF      string
	Excel    string
	Manifest string
	PNGDir   string
	DXF      string
	Project  string
}

var (
	packOut packOutputs

	// searchGenerations enables the insertion order search when > 0.
	searchGenerations int
	searchSeed        int64
)

func init() {
	cmd := newPackCmd()
	f := cmd.Flags()
	f.StringVar(&packOut.PDF, "pdf", "", "Write a PDF report")
	f.StringVar(&packOut.Excel, "xlsx", "", "Write an Excel workbook")
	f.StringVar(&packOut.Manifest, "json", "", "Write a JSON manifest")
	f.StringVar(&packOut.PNGDir, "png-dir", "", "Write one PNG preview per page into this directory")
	f.StringVar(&packOut.DXF, "dxf", "", "Write page and tile outlines as DXF")
	f.StringVar(&packOut.Project, "save", "", "Save sprites, settings and result as a "+project.Extension+" project")
	f.IntVar(&searchGenerations, "search", 0, "Search insertion orders for this many generations (0 = sorted order only)")
	f.Int64Var(&searchSeed, "seed", engine.DefaultGeneticConfig().Seed, "Random seed for --search")
	rootCmd.AddCommand(cmd)
}

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <input>...",
		Short: "Pack sprites and write the atlas layout",
		Long: `The pack command places every sprite on the first page with room and
writes the requested outputs. Sprites larger than a page, or beyond the
page limit, are listed as unplaced.

Example:
  atlaspack pack sprites.csv --json atlas.json --png-dir previews
  atlaspack pack ./icons --preset "Glyph 512" --pdf icons.pdf
  atlaspack pack sprites.csv --search 80 --json atlas.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := buildSettings(cmd.Flags(), loadPresets())
			if err != nil {
				return err
			}
			sprites, err := loadSprites(args, dxfScale)
			if err != nil {
				return err
			}
			result, err := runPack(settings, sprites, packOut)
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(export.BuildManifest(result))
			}
			printPackSummary(result)
			return nil
		},
	}
}

// runPack packs the sprites and writes every requested output.
func runPack(settings model.AtlasSettings, sprites []model.Sprite, out packOutputs) (model.PackResult, error) {
	result, err := packSprites(settings, sprites)
	if err != nil {
		return result, err
	}

	writers := []struct {
		path  string
		write func(string) error
	}{
		{out.PDF, func(p string) error { return export.ExportPDF(p, result, settings) }},
		{out.Excel, func(p string) error { return export.ExportExcel(p, result) }},
		{out.Manifest, func(p string) error { return export.ExportManifest(p, result) }},
		{out.DXF, func(p string) error { return export.ExportDXF(p, result) }},
		{out.PNGDir, func(p string) error {
			_, err := export.ExportPreviewPNG(p, result)
			return err
		}},
		{out.Project, func(p string) error {
			proj := model.NewProject()
			proj.Name = projectName(p)
			proj.Sprites = sprites
			proj.Settings = settings
			proj.Result = &result
			return project.Save(p, proj)
		}},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := w.write(w.path); err != nil {
			return result, fmt.Errorf("writing %s: %w", w.path, err)
		}
		printInfo("Wrote %s\n", w.path)
	}
	return result, nil
}

// packSprites runs the plain packer, or the order search when --search is set.
func packSprites(settings model.AtlasSettings, sprites []model.Sprite) (model.PackResult, error) {
	p := engine.New(settings)
	if searchGenerations <= 0 {
		return p.Pack(sprites)
	}
	total := 0
	for _, s := range sprites {
		total += s.Quantity
	}
	cfg := engine.DefaultGeneticConfig().ScaleForSprites(total)
	cfg.Generations = searchGenerations
	cfg.Seed = searchSeed
	return p.PackGenetic(sprites, cfg)
}

func projectName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func printPackSummary(result model.PackResult) {
	for i, l := range export.CollectPageLabels(result) {
		printInfo("%-8s %s  %dx%d  %4d sprites  %5.1f%% used  %d free regions\n",
			l.PageLabel, l.PageID, l.Width, l.Height,
			l.Sprites, l.Efficiency, len(result.Pages[i].FreeRegions))
	}
	printInfo("Total: %d pages, %d sprites placed, %.1f%% efficiency\n",
		len(result.Pages), result.PlacementCount(), result.TotalEfficiency())
	if len(result.Unplaced) > 0 {
		printInfo("Unplaced: %d sprites\n", len(result.Unplaced))
		for _, s := range result.Unplaced {
			printInfo("  %s (%dx%d)\n", s.Label, s.Width, s.Height)
		}
	}
}
