package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/TileAtlas/internal/model"
)

// Extension is the file extension used for saved projects.
const Extension = ".tatlas"

// Save writes a project, including any packing result, to path.
func Save(path string, p model.Project) error {
	if err := writeJSON(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads a project from path. Missing settings fall back to defaults.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Sprites == nil {
		p.Sprites = []model.Sprite{}
	}
	return p, nil
}
