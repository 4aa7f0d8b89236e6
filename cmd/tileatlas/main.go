// TileAtlas: texture atlas packer.
//
// A cross-platform desktop application that packs sprites into fixed-size
// atlas pages and exports the layout as PDF, Excel, JSON, PNG or DXF.
//
// Build:
//   go build -o tileatlas ./cmd/tileatlas
//
// Using fyne-cross for packaged builds:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
	"github.com/piwi3910/TileAtlas/internal/ui"
)

func main() {
	config, cfgErr := project.LoadAppConfig(project.DefaultConfigPath())
	if cfgErr != nil {
		config = model.DefaultAppConfig()
	}

	if err := logging.Init(logging.Config{
		Level:      logging.LogLevel(config.LogLevel),
		OutputPath: filepath.Join(project.DefaultConfigDir(), "tileatlas.log"),
		Format:     "text",
	}); err != nil {
		logging.InitDefault()
	}
	defer logging.Close()

	log := logging.WithComponent("main")
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("using default preferences")
	}
	presets, err := project.LoadPresets(project.DefaultPresetPath())
	if err != nil {
		log.WithError(err).Warn("using built-in presets only")
		presets = model.NewPresetStore()
	}

	application := app.NewWithID("com.piwi3910.tileatlas")
	window := application.NewWindow("TileAtlas: Texture Atlas Packer")

	appUI := ui.NewApp(application, window, config, presets)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	log.Info("starting")
	window.ShowAndRun()
}
