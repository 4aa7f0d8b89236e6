package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/TileAtlas/internal/importer"
	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
	"github.com/piwi3910/TileAtlas/internal/project"
)

// loadSprites reads every input path. Directories are scanned for images;
// files are dispatched on their extension. Per-row import errors are
// logged and skipped; an input that yields nothing is an error.
func loadSprites(paths []string, scale float64) ([]model.Sprite, error) {
	log := logging.WithComponent("input")
	var sprites []model.Sprite

	for _, path := range paths {
		result, err := importPath(path, scale)
		if err != nil {
			return nil, err
		}
		for _, w := range result.Warnings {
			log.WithField("path", path).Debug(w)
		}
		for _, e := range result.Errors {
			log.WithField("path", path).Warn(e)
		}
		if len(result.Sprites) == 0 {
			return nil, fmt.Errorf("%s: no sprites imported", path)
		}
		log.WithField("path", path).WithField("sprites", len(result.Sprites)).Debug("imported")
		sprites = append(sprites, result.Sprites...)
	}
	return sprites, nil
}

func importPath(path string, scale float64) (importer.ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return importer.ImportResult{}, err
	}
	if info.IsDir() {
		return importer.ImportImages(path), nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", ".tsv":
		return importer.ImportCSV(path), nil
	case ".xlsx", ".xlsm":
		return importer.ImportExcel(path), nil
	case ".dxf":
		return importer.ImportDXF(path, scale), nil
	case project.Extension:
		proj, err := project.Load(path)
		if err != nil {
			return importer.ImportResult{}, err
		}
		return importer.ImportResult{Sprites: proj.Sprites}, nil
	default:
		return importer.ImportResult{}, fmt.Errorf("%s: unsupported input type %q", path, ext)
	}
}
