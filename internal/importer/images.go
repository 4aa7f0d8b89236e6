package importer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/TileAtlas/internal/model"
)

// imageExtensions lists the file types ImportImages looks at.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
}

// ImportImages creates one sprite per image file directly inside dir. Only
// the image header is decoded. Files are visited in name order and the
// sprite label is the file name without its extension.
func ImportImages(dir string) ImportResult {
	result := ImportResult{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read directory: %v", err))
		return result
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !imageExtensions[ext] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		w, h, err := imageSize(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", e.Name(), err))
			continue
		}
		sprite := model.NewSprite(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), w, h, 1)
		sprite.Source = path
		result.Sprites = append(result.Sprites, sprite)
	}

	if len(result.Sprites) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No images found")
	}
	return result
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
