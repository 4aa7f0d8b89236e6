package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/TileAtlas/internal/engine"
	"github.com/piwi3910/TileAtlas/internal/export"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
)

// settingsFlags binds the settings globals to a fresh flag set.
func settingsFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	// Keep the user's real config and presets out of the test.
	t.Setenv("HOME", t.TempDir())
	d := model.DefaultSettings()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&presetName, "preset", "", "")
	fs.IntVar(&pageWidth, "page-width", d.PageWidth, "")
	fs.IntVar(&pageHeight, "page-height", d.PageHeight, "")
	fs.IntVar(&padding, "padding", d.Padding, "")
	fs.StringVar(&sortOrder, "sort", string(d.SortOrder), "")
	fs.IntVar(&maxPages, "max-pages", d.MaxPages, "")
	t.Cleanup(func() { presetName = "" })
	return fs
}

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestBuildSettings_Defaults(t *testing.T) {
	fs := settingsFlags(t)
	s, err := buildSettings(fs, model.NewPresetStore())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), s)
}

func TestBuildSettings_FlagsOverridePreset(t *testing.T) {
	fs := settingsFlags(t)
	require.NoError(t, fs.Parse([]string{"--preset", "Glyph 512", "--padding", "0", "--sort", "area"}))

	s, err := buildSettings(fs, model.NewPresetStore())
	require.NoError(t, err)
	assert.Equal(t, 512, s.PageWidth)
	assert.Equal(t, 512, s.PageHeight)
	assert.Equal(t, 0, s.Padding)
	assert.Equal(t, model.SortArea, s.SortOrder)
}

func TestBuildSettings_AppConfigDefaults(t *testing.T) {
	fs := settingsFlags(t)
	cfg := model.DefaultAppConfig()
	cfg.DefaultPageWidth = 512
	cfg.DefaultPageHeight = 256
	cfg.DefaultPadding = 0
	cfg.DefaultSortOrder = model.SortArea
	require.NoError(t, project.SaveAppConfig(project.DefaultConfigPath(), cfg))

	s, err := buildSettings(fs, loadPresets())
	require.NoError(t, err)
	assert.Equal(t, 512, s.PageWidth)
	assert.Equal(t, 256, s.PageHeight)
	assert.Equal(t, 0, s.Padding)
	assert.Equal(t, model.SortArea, s.SortOrder)

	require.NoError(t, fs.Parse([]string{"--page-height", "1024"}))
	s, err = buildSettings(fs, loadPresets())
	require.NoError(t, err)
	assert.Equal(t, 512, s.PageWidth, "config value kept")
	assert.Equal(t, 1024, s.PageHeight, "flag wins over config")
}

func TestBuildSettings_PresetReplacesAppConfig(t *testing.T) {
	fs := settingsFlags(t)
	cfg := model.DefaultAppConfig()
	cfg.DefaultPageWidth = 256
	cfg.DefaultPageHeight = 256
	require.NoError(t, project.SaveAppConfig(project.DefaultConfigPath(), cfg))
	require.NoError(t, fs.Parse([]string{"--preset", "Glyph 512"}))

	s, err := buildSettings(fs, model.NewPresetStore())
	require.NoError(t, err)
	assert.Equal(t, 512, s.PageWidth)
}

func TestBuildSettings_InvalidAppConfigIgnored(t *testing.T) {
	fs := settingsFlags(t)
	require.NoError(t, os.MkdirAll(project.DefaultConfigDir(), 0755))
	require.NoError(t, os.WriteFile(project.DefaultConfigPath(), []byte(`{"default_page_width": 2}`), 0644))

	s, err := buildSettings(fs, loadPresets())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), s)
}

func TestBuildSettings_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--preset", "Console 9000"}},
		{"unknown sort", []string{"--sort", "diagonal"}},
		{"page too small", []string{"--page-width", "4"}},
		{"negative limit", []string{"--max-pages", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := settingsFlags(t)
			require.NoError(t, fs.Parse(tt.args))
			_, err := buildSettings(fs, model.NewPresetStore())
			assert.Error(t, err)
		})
	}
}

func TestLoadSprites_MixedInputs(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir, "ui.csv", "Label,Width,Height,Qty\nbutton,64,32,2\nicon,16,16,1\n")

	proj := model.NewProject()
	proj.Sprites = []model.Sprite{model.NewSprite("boss", 256, 256, 1)}
	projPath := filepath.Join(dir, "level"+project.Extension)
	require.NoError(t, project.Save(projPath, proj))

	sprites, err := loadSprites([]string{csvPath, projPath}, 1)
	require.NoError(t, err)
	require.Len(t, sprites, 3)
	assert.Equal(t, "button", sprites[0].Label)
	assert.Equal(t, 2, sprites[0].Quantity)
	assert.Equal(t, "boss", sprites[2].Label)
}

func TestLoadSprites_Errors(t *testing.T) {
	dir := t.TempDir()
	unsupported := writeCSV(t, dir, "notes.md", "# nothing")
	empty := writeCSV(t, dir, "empty.csv", "Label,Width,Height\n")

	_, err := loadSprites([]string{filepath.Join(dir, "missing.csv")}, 1)
	assert.Error(t, err)

	_, err = loadSprites([]string{unsupported}, 1)
	assert.ErrorContains(t, err, "unsupported input type")

	_, err = loadSprites([]string{empty}, 1)
	assert.ErrorContains(t, err, "no sprites imported")

	_, err = loadSprites([]string{t.TempDir()}, 1)
	assert.ErrorContains(t, err, "no sprites imported")
}

func TestRunPack_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	settings := model.AtlasSettings{PageWidth: 64, PageHeight: 64, SortOrder: model.SortArea}
	sprites := []model.Sprite{
		model.NewSprite("a", 32, 32, 5),
		model.NewSprite("huge", 128, 8, 1),
	}
	out := packOutputs{
		Manifest: filepath.Join(dir, "atlas.json"),
		PNGDir:   filepath.Join(dir, "png"),
		Project:  filepath.Join(dir, "atlas"+project.Extension),
	}

	result, err := runPack(settings, sprites, out)
	require.NoError(t, err)
	assert.Len(t, result.Pages, 2)
	assert.Equal(t, 5, result.PlacementCount())
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "huge", result.Unplaced[0].Label)

	assert.FileExists(t, out.Manifest)
	assert.FileExists(t, filepath.Join(out.PNGDir, "page-1.png"))
	assert.FileExists(t, filepath.Join(out.PNGDir, "page-2.png"))

	saved, err := project.Load(out.Project)
	require.NoError(t, err)
	assert.Equal(t, "atlas", saved.Name)
	assert.Equal(t, settings, saved.Settings)
	require.NotNil(t, saved.Result)
	assert.Len(t, saved.Result.Pages, 2)
}

func TestRunPack_NoSprites(t *testing.T) {
	_, err := runPack(model.DefaultSettings(), nil, packOutputs{})
	assert.ErrorIs(t, err, engine.ErrNoSprites)
}

func TestRunPack_Search(t *testing.T) {
	searchGenerations, searchSeed = 5, 1
	t.Cleanup(func() { searchGenerations, searchSeed = 0, engine.DefaultGeneticConfig().Seed })

	settings := model.AtlasSettings{PageWidth: 64, PageHeight: 64, SortOrder: model.SortNone}
	sprites := []model.Sprite{
		model.NewSprite("wide", 48, 16, 3),
		model.NewSprite("small", 16, 16, 4),
	}
	result, err := runPack(settings, sprites, packOutputs{})
	require.NoError(t, err)
	assert.Equal(t, 7, result.PlacementCount())
	assert.Empty(t, result.Unplaced)
	assert.Len(t, result.Pages, 1)
}

func TestRunPack_JSONFormatKeepsStdoutClean(t *testing.T) {
	var out, errOut bytes.Buffer
	stdout, stderr, format = &out, &errOut, "json"
	t.Cleanup(func() { stdout, stderr, format = os.Stdout, os.Stderr, "text" })

	dir := t.TempDir()
	settings := model.AtlasSettings{PageWidth: 64, PageHeight: 64}
	outputs := packOutputs{Manifest: filepath.Join(dir, "atlas.json"), PNGDir: filepath.Join(dir, "png")}
	result, err := runPack(settings, []model.Sprite{model.NewSprite("a", 16, 16, 3)}, outputs)
	require.NoError(t, err)
	require.NoError(t, printJSON(export.BuildManifest(result)))

	assert.True(t, json.Valid(out.Bytes()), "stdout must hold only the JSON report: %q", out.String())
	assert.Contains(t, errOut.String(), "Wrote "+outputs.Manifest)
}

func TestPrintPackSummary(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	t.Cleanup(func() { stdout = os.Stdout })

	settings := model.AtlasSettings{PageWidth: 64, PageHeight: 64}
	result, err := runPack(settings, []model.Sprite{
		model.NewSprite("a", 32, 32, 2),
		model.NewSprite("huge", 100, 4, 1),
	}, packOutputs{})
	require.NoError(t, err)
	printPackSummary(result)

	text := out.String()
	assert.Contains(t, text, result.Pages[0].Page.ID)
	assert.Contains(t, text, "64x64")
	assert.Contains(t, text, "2 sprites   50.0% used")
	assert.Contains(t, text, "Total: 1 pages, 2 sprites placed, 50.0% efficiency")
	assert.Contains(t, text, "  huge (100x4)")
}

func TestCompareReports(t *testing.T) {
	s := model.DefaultSettings()
	reports := compareReports([]engine.ComparisonResult{
		{Scenario: engine.ComparisonScenario{Name: "Current Settings", Settings: s}, PagesUsed: 2, PlacedCount: 9, WastePercent: 12.5},
		{Scenario: engine.ComparisonScenario{Name: "Broken", Settings: s}, Err: errors.New("boom")},
	})
	require.Len(t, reports, 2)
	assert.Equal(t, "Current Settings", reports[0].Name)
	assert.Equal(t, 1024, reports[0].PageWidth)
	assert.Equal(t, string(model.SortHeight), reports[0].SortOrder)
	assert.Equal(t, 9, reports[0].Placed)
	assert.Empty(t, reports[0].Error)
	assert.Equal(t, "boom", reports[1].Error)
}
