package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
)

// showSettingsDialog displays the application preferences editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	levelSelect.SetSelected(cfg.LogLevel)

	orders := model.SortOrders()
	orderNames := make([]string, len(orders))
	for i, o := range orders {
		orderNames[i] = string(o)
	}
	sortSelect := widget.NewSelect(orderNames, func(selected string) {
		cfg.DefaultSortOrder = model.SortOrder(selected)
	})
	sortSelect.SetSelected(string(cfg.DefaultSortOrder))

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Log Level", levelSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Page Width (px)", intEntry(&cfg.DefaultPageWidth)),
		widget.NewFormItem("Default Page Height (px)", intEntry(&cfg.DefaultPageHeight)),
		widget.NewFormItem("Default Padding (px)", intEntry(&cfg.DefaultPadding)),
		widget.NewFormItem("Default Page Limit", intEntry(&cfg.DefaultMaxPages)),
		widget.NewFormItem("Default Sort Order", sortSelect),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			var probe model.AtlasSettings
			cfg.ApplyToSettings(&probe)
			if err := probe.Validate(); err != nil {
				dialog.ShowError(fmt.Errorf("invalid defaults: %w", err), a.window)
				return
			}
			a.config = cfg
			a.theme.SetVariantName(cfg.Theme)
			a.app.Settings().SetTheme(a.theme)
			logging.SetLevel(logging.LogLevel(cfg.LogLevel))
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Preferences Saved", "Application preferences have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 450))
	d.Show()
}

// showPresetPicker starts a new project from a built-in or saved preset.
func (a *App) showPresetPicker() {
	names := a.presets.Names()
	nameEntry := widget.NewEntry()
	nameEntry.SetText("Untitled")
	presetSelect := widget.NewSelect(names, nil)
	if len(names) > 0 {
		presetSelect.SetSelected(names[0])
	}

	d := dialog.NewForm("New Project from Preset", "Create", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Project Name", nameEntry),
			widget.NewFormItem("Preset", presetSelect),
		},
		func(ok bool) {
			if !ok {
				return
			}
			p := a.presets.FindByName(presetSelect.Selected)
			if p == nil {
				dialog.ShowError(fmt.Errorf("preset %q not found", presetSelect.Selected), a.window)
				return
			}
			a.newProject(p.ToProject(nameEntry.Text))
		},
		a.window,
	)
	d.Resize(fyne.NewSize(400, 200))
	d.Show()
}

// showSavePresetDialog stores the current settings as a user preset.
func (a *App) showSavePresetDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Preset name")
	descEntry := widget.NewEntry()

	d := dialog.NewForm("Save Settings as Preset", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if nameEntry.Text == "" {
				dialog.ShowError(fmt.Errorf("preset name must not be empty"), a.window)
				return
			}
			a.presets.Add(model.NewAtlasPreset(nameEntry.Text, descEntry.Text, a.project.Settings))
			if err := project.SavePresets(project.DefaultPresetPath(), a.presets); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), a.window)
				return
			}
			a.refreshSettingsPanel()
		},
		a.window,
	)
	d.Resize(fyne.NewSize(400, 200))
	d.Show()
}

// showImportExportDialog displays the backup import/export dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.presets); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("tileatlas-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your preferences and saved presets.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.presets = backup.Presets
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					if err := project.SavePresets(project.DefaultPresetPath(), a.presets); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported presets: %w", err), a.window)
						return
					}
					a.refreshSettingsPanel()
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences and saved presets to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
