package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
)

// buildSettings starts from the saved app config defaults, replaces them
// with the named preset if any, and applies every settings flag the user set
// explicitly.
func buildSettings(flags *pflag.FlagSet, presets model.PresetStore) (model.AtlasSettings, error) {
	settings := configSettings()
	if presetName != "" {
		p := presets.FindByName(presetName)
		if p == nil {
			return settings, fmt.Errorf("unknown preset %q", presetName)
		}
		settings = p.Settings
	}

	if flags.Changed("page-width") {
		settings.PageWidth = pageWidth
	}
	if flags.Changed("page-height") {
		settings.PageHeight = pageHeight
	}
	if flags.Changed("padding") {
		settings.Padding = padding
	}
	if flags.Changed("max-pages") {
		settings.MaxPages = maxPages
	}
	if flags.Changed("sort") {
		order, err := model.ParseSortOrder(sortOrder)
		if err != nil {
			return settings, err
		}
		settings.SortOrder = order
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	if !settings.IsPowerOfTwo() {
		logging.WithComponent("cli").WithFields(logrus.Fields{
			"width":  settings.PageWidth,
			"height": settings.PageHeight,
		}).Warn("page size is not a power of two")
	}
	return settings, nil
}

// configSettings applies the defaults saved in the app config. A missing,
// unreadable or invalid config leaves the built-in defaults.
func configSettings() model.AtlasSettings {
	settings := model.DefaultSettings()
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logging.WithError(err).Warn("ignoring unreadable app config")
		return settings
	}
	fromConfig := settings
	cfg.ApplyToSettings(&fromConfig)
	if err := fromConfig.Validate(); err != nil {
		logging.WithError(err).Warn("ignoring invalid defaults in app config")
		return settings
	}
	return fromConfig
}

// loadPresets reads the user's saved presets. A missing or broken file
// leaves only the built-in presets.
func loadPresets() model.PresetStore {
	store, err := project.LoadPresets(project.DefaultPresetPath())
	if err != nil {
		return model.NewPresetStore()
	}
	return store
}
