package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/TileAtlas/internal/engine"
	"github.com/piwi3910/TileAtlas/internal/export"
	spriteimporter "github.com/piwi3910/TileAtlas/internal/importer"
	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
	"github.com/piwi3910/TileAtlas/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app         fyne.App
	window      fyne.Window
	project     model.Project
	projectPath string
	config      model.AppConfig
	presets     model.PresetStore
	history     *History
	theme       *AtlasTheme
	log         *logrus.Entry

	tabs             *container.AppTabs
	spritesContainer *fyne.Container
	settingsForm     *fyne.Container
	resultContainer  *fyne.Container
	showFree         bool
}

func NewApp(application fyne.App, window fyne.Window, config model.AppConfig, presets model.PresetStore) *App {
	proj := model.NewProject()
	config.ApplyToSettings(&proj.Settings)

	a := &App{
		app:     application,
		window:  window,
		project: proj,
		config:  config,
		presets: presets,
		history: NewHistory(),
		theme:   NewAtlasTheme(config.Theme),
		log:     logging.WithComponent("ui"),
	}
	application.Settings().SetTheme(a.theme)
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() { a.newProject(model.NewProject()) }),
		fyne.NewMenuItem("New Project from Preset...", a.showPresetPicker),
		fyne.NewMenuItem("Open Project...", a.loadProject),
		fyne.NewMenuItem("Save Project...", a.saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Sprites from CSV...", func() { a.importFile(spriteimporter.ImportCSV) }),
		fyne.NewMenuItem("Import Sprites from Excel...", func() { a.importFile(spriteimporter.ImportExcel) }),
		fyne.NewMenuItem("Import Shapes from DXF...", func() {
			a.importFile(func(path string) spriteimporter.ImportResult { return spriteimporter.ImportDXF(path, 1) })
		}),
		fyne.NewMenuItem("Import Image Folder...", a.importImageFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportFile("atlas.pdf", func(path string, r model.PackResult) error {
				return export.ExportPDF(path, r, a.project.Settings)
			})
		}),
		fyne.NewMenuItem("Export Excel...", func() { a.exportFile("atlas.xlsx", export.ExportExcel) }),
		fyne.NewMenuItem("Export JSON Manifest...", func() { a.exportFile("atlas.json", export.ExportManifest) }),
		fyne.NewMenuItem("Export DXF Outlines...", func() { a.exportFile("atlas.dxf", export.ExportDXF) }),
		fyne.NewMenuItem("Export PNG Previews...", a.exportPreviews),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.window.Close() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Sprites", func() {
			a.pushHistory("Clear Sprites")
			a.project.Sprites = nil
			a.refreshSpritesList()
		}),
		fyne.NewMenuItem("Preferences...", a.showSettingsDialog),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Pack", func() {
			a.runPack()
			a.tabs.SelectIndex(2)
		}),
		fyne.NewMenuItem("Pack with Order Search", func() {
			a.runSearchPack()
			a.tabs.SelectIndex(2)
		}),
		fyne.NewMenuItem("Estimate Pages", a.showEstimate),
		fyne.NewMenuItem("Compare Scenarios", a.showComparison),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Settings as Preset...", a.showSavePresetDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About TileAtlas",
		"TileAtlas: Texture Atlas Packer\n\n"+
			"Packs sprites into fixed-size atlas pages using a\n"+
			"row-based best-fit strategy and exports the layout\n"+
			"for game engines, spreadsheets and CAD tools.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Sprites", a.buildSpritesPanel()),
		container.NewTabItem("Settings", a.buildSettingsPanel()),
		container.NewTabItem("Results", a.buildResultsPanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	return withToolTipLayer(a.tabs, a.window)
}

// ─── Sprites Panel ─────────────────────────────────────────

func (a *App) buildSpritesPanel() fyne.CanvasObject {
	a.spritesContainer = container.NewVBox()
	a.refreshSpritesList()

	addBtn := widget.NewButtonWithIcon("Add Sprite", theme.ContentAddIcon(), a.showAddSpriteDialog)
	packBtn := widget.NewButtonWithIcon("Pack", theme.MediaPlayIcon(), func() {
		a.runPack()
		a.tabs.SelectIndex(2)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Sprites", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
			packBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.spritesContainer),
	)
}

func (a *App) refreshSpritesList() {
	a.spritesContainer.RemoveAll()

	if len(a.project.Sprites) == 0 {
		a.spritesContainer.Add(widget.NewLabel("No sprites added yet. Click 'Add Sprite' or import a file to begin."))
		return
	}

	bold := fyne.TextStyle{Bold: true}
	a.spritesContainer.Add(container.NewGridWithColumns(7,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Width (px)", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Height (px)", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Qty", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Source", fyne.TextAlignLeading, bold),
		widget.NewLabel(""),
		widget.NewLabel(""),
	))
	a.spritesContainer.Add(widget.NewSeparator())

	for i := range a.project.Sprites {
		idx := i
		s := a.project.Sprites[idx]
		a.spritesContainer.Add(container.NewGridWithColumns(8,
			widget.NewLabel(s.Label),
			widget.NewLabel(fmt.Sprintf("%d", s.Width)),
			widget.NewLabel(fmt.Sprintf("%d", s.Height)),
			widget.NewLabel(fmt.Sprintf("%d", s.Quantity)),
			widget.NewLabel(filepath.Base(s.Source)),
			newIconButtonWithTooltip(theme.SearchIcon(), "Show placements", func() {
				a.showPlacements(s)
			}),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit sprite", func() {
				a.showSpriteDialog(idx)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Delete sprite", func() {
				a.pushHistory("Delete Sprite")
				a.project.Sprites = append(a.project.Sprites[:idx], a.project.Sprites[idx+1:]...)
				a.refreshSpritesList()
			}),
		))
	}
}

// showPlacements lists where the last pack put every copy of s.
func (a *App) showPlacements(s model.Sprite) {
	if a.project.Result == nil {
		dialog.ShowInformation("Not packed yet", "Run Pack to see where sprites are placed.", a.window)
		return
	}
	text := formatPlacements(s, a.project.Result.FindSprite(s.ID))
	dialog.ShowInformation("Placements of "+s.Label, text, a.window)
}

func (a *App) showAddSpriteDialog() {
	a.showSpriteDialog(-1)
}

// showSpriteDialog adds a sprite when idx < 0 and edits sprite idx otherwise.
func (a *App) showSpriteDialog(idx int) {
	labelEntry := widget.NewEntry()
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	qtyEntry := widget.NewEntry()

	title, confirm := "Add Sprite", "Add"
	if idx < 0 {
		labelEntry.SetText(fmt.Sprintf("Sprite %d", len(a.project.Sprites)+1))
		widthEntry.SetPlaceHolder("Width in px")
		heightEntry.SetPlaceHolder("Height in px")
		qtyEntry.SetText("1")
	} else {
		s := a.project.Sprites[idx]
		title, confirm = "Edit Sprite", "Save"
		labelEntry.SetText(s.Label)
		widthEntry.SetText(fmt.Sprintf("%d", s.Width))
		heightEntry.SetText(fmt.Sprintf("%d", s.Height))
		qtyEntry.SetText(fmt.Sprintf("%d", s.Quantity))
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Width (px)", widthEntry),
			widget.NewFormItem("Height (px)", heightEntry),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			sprite, err := parseSpriteForm(labelEntry.Text, widthEntry.Text, heightEntry.Text, qtyEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.pushHistory(title)
			if idx < 0 {
				a.project.Sprites = append(a.project.Sprites, sprite)
			} else {
				existing := &a.project.Sprites[idx]
				existing.Label = sprite.Label
				existing.Width = sprite.Width
				existing.Height = sprite.Height
				existing.Quantity = sprite.Quantity
			}
			a.refreshSpritesList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsForm = container.NewVBox()
	a.refreshSettingsPanel()
	return container.NewVScroll(a.settingsForm)
}

func (a *App) refreshSettingsPanel() {
	a.settingsForm.RemoveAll()
	s := a.project.Settings

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%d", s.PageWidth))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(fmt.Sprintf("%d", s.PageHeight))
	paddingEntry := widget.NewEntry()
	paddingEntry.SetText(fmt.Sprintf("%d", s.Padding))
	maxPagesEntry := widget.NewEntry()
	maxPagesEntry.SetText(fmt.Sprintf("%d", s.MaxPages))

	orders := model.SortOrders()
	orderNames := make([]string, len(orders))
	for i, o := range orders {
		orderNames[i] = string(o)
	}
	sortSelect := widget.NewSelect(orderNames, nil)
	sortSelect.SetSelected(string(s.SortOrder))

	presetSelect := widget.NewSelect(a.presets.Names(), func(name string) {
		if p := a.presets.FindByName(name); p != nil {
			a.pushHistory("Apply Preset")
			a.project.Settings = p.Settings
			a.refreshSettingsPanel()
		}
	})
	presetSelect.PlaceHolder = "Apply a preset..."

	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		next := a.project.Settings
		if err := parseSettingsForm(&next, widthEntry.Text, heightEntry.Text,
			paddingEntry.Text, maxPagesEntry.Text, sortSelect.Selected); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.pushHistory("Change Settings")
		a.project.Settings = next
		a.refreshSettingsPanel()
	})

	a.settingsForm.Add(widget.NewCard("Atlas Pages", "", container.NewGridWithColumns(2,
		widget.NewLabel("Preset"), presetSelect,
		widget.NewLabel("Page Width (px)"), widthEntry,
		widget.NewLabel("Page Height (px)"), heightEntry,
		widget.NewLabel("Padding (px)"), paddingEntry,
		widget.NewLabel("Page Limit (0 = unlimited)"), maxPagesEntry,
	)))
	a.settingsForm.Add(widget.NewCard("Packing", "", container.NewGridWithColumns(2,
		widget.NewLabel("Sort Order"), sortSelect,
	)))
	if hint := powerOfTwoHint(s); hint != "" {
		warn := widget.NewLabelWithStyle(hint, fyne.TextAlignLeading, fyne.TextStyle{Italic: true})
		warn.Importance = widget.WarningImportance
		a.settingsForm.Add(warn)
	}
	a.settingsForm.Add(container.NewHBox(layout.NewSpacer(), applyBtn))
	a.settingsForm.Refresh()
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(
		widget.NewLabel("No results yet. Add sprites, then click Pack."),
	)
	freeCheck := widget.NewCheck("Show free regions", func(on bool) {
		a.showFree = on
		a.refreshResults()
	})
	return container.NewBorder(container.NewHBox(layout.NewSpacer(), freeCheck), nil, nil, nil, a.resultContainer)
}

func (a *App) refreshResults() {
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderPageResults(a.project.Result, a.showFree))
	a.resultContainer.Refresh()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) runPack() {
	if len(a.project.Sprites) == 0 {
		dialog.ShowInformation("Nothing to pack", "Add at least one sprite first.", a.window)
		return
	}

	a.applyPack(engine.New(a.project.Settings).Pack(a.project.Sprites))
}

// runSearchPack packs with the genetic insertion order search.
func (a *App) runSearchPack() {
	if len(a.project.Sprites) == 0 {
		dialog.ShowInformation("Nothing to pack", "Add at least one sprite first.", a.window)
		return
	}

	total := 0
	for _, s := range a.project.Sprites {
		total += s.Quantity
	}
	cfg := engine.DefaultGeneticConfig().ScaleForSprites(total)
	a.applyPack(engine.New(a.project.Settings).PackGenetic(a.project.Sprites, cfg))
}

func (a *App) applyPack(result model.PackResult, err error) {
	if err != nil {
		logging.WithError(err).Error("packing failed")
		dialog.ShowError(err, a.window)
		return
	}
	a.project.Result = &result
	a.refreshResults()
}

func (a *App) showEstimate() {
	est := engine.New(a.project.Settings).Estimate(a.project.Sprites, 15)
	dialog.ShowInformation("Page Estimate", formatEstimate(est), a.window)
}

func (a *App) showComparison() {
	if len(a.project.Sprites) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one sprite first.", a.window)
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(a.project.Settings), a.project.Sprites)

	text := widget.NewLabel(strings.Join(formatComparison(results), "\n"))
	text.TextStyle = fyne.TextStyle{Monospace: true}
	d := dialog.NewCustom("Scenario Comparison", "Close", container.NewVScroll(text), a.window)
	d.Resize(fyne.NewSize(640, 420))
	d.Show()
}

func (a *App) newProject(p model.Project) {
	if p.Settings == model.DefaultSettings() {
		a.config.ApplyToSettings(&p.Settings)
	}
	a.project = p
	a.projectPath = ""
	a.history.Clear()
	a.refreshSpritesList()
	a.refreshSettingsPanel()
	a.refreshResults()
}

func (a *App) undo() {
	// The current state goes to the redo stack under the undone change's
	// label, so RedoLabel names it again.
	label := a.history.UndoLabel()
	snap, ok := a.history.Undo(a.snapshot(label))
	if !ok {
		return
	}
	a.log.WithField("change", label).Debug("undo")
	a.restore(snap)
}

func (a *App) redo() {
	label := a.history.RedoLabel()
	snap, ok := a.history.Redo(a.snapshot(label))
	if !ok {
		return
	}
	a.log.WithField("change", label).Debug("redo")
	a.restore(snap)
}

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.project.Sprites, a.project.Settings, label)
}

func (a *App) pushHistory(label string) {
	a.history.Push(a.snapshot(label))
}

func (a *App) restore(s Snapshot) {
	a.project.Sprites = s.Sprites
	a.project.Settings = s.Settings
	a.refreshSpritesList()
	a.refreshSettingsPanel()
}

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.Save(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.projectPath = path
		a.rememberProject(path)
	}, a.window)
	d.SetFileName(a.project.Name + project.Extension)
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		proj, err := project.Load(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.project = proj
		a.projectPath = path
		a.history.Clear()
		a.rememberProject(path)
		a.refreshSpritesList()
		a.refreshSettingsPanel()
		a.refreshResults()
	}, a.window)
	d.Show()
}

func (a *App) rememberProject(path string) {
	a.config.AddRecentProject(path)
	if err := a.saveConfig(); err != nil {
		logging.WithError(err).Warn("failed to save recent projects")
	}
}

// exportFile asks for a destination and writes the current result with fn.
func (a *App) exportFile(defaultName string, fn func(string, model.PackResult) error) {
	if a.project.Result == nil || len(a.project.Result.Pages) == 0 {
		dialog.ShowInformation("No results", "Pack the sprites before exporting.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := fn(path, *a.project.Result); err != nil {
			logging.WithError(err).WithField("path", path).Error("export failed")
			dialog.ShowError(err, a.window)
			return
		}
		a.log.WithField("path", path).Info("exported atlas")
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportPreviews() {
	if a.project.Result == nil || len(a.project.Result.Pages) == 0 {
		dialog.ShowInformation("No results", "Pack the sprites before exporting.", a.window)
		return
	}
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		paths, err := export.ExportPreviewPNG(dir.Path(), *a.project.Result)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Wrote %d page previews to %s", len(paths), dir.Path()), a.window)
	}, a.window)
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importFile(fn func(string) spriteimporter.ImportResult) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(fn(path))
	}, a.window)
}

func (a *App) importImageFolder() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		a.handleImportResult(spriteimporter.ImportImages(dir.Path()))
	}, a.window)
}

func (a *App) handleImportResult(result spriteimporter.ImportResult) {
	if len(result.Errors) > 0 {
		dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s", strings.Join(result.Errors, "\n")), a.window)
	}
	for _, w := range result.Warnings {
		a.log.WithField("warning", w).Debug("import warning")
	}

	if len(result.Sprites) > 0 {
		a.pushHistory("Import Sprites")
		a.project.Sprites = append(a.project.Sprites, result.Sprites...)
		a.refreshSpritesList()

		msg := fmt.Sprintf("Successfully imported %d sprites.", len(result.Sprites))
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d entries had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}
}
