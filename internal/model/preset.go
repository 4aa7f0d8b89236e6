package model

import (
	"time"

	"github.com/google/uuid"
)

// AtlasPreset is a named, reusable set of atlas settings.
type AtlasPreset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Settings    AtlasSettings `json:"settings"`
}

func NewAtlasPreset(name, description string, settings AtlasSettings) AtlasPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	return AtlasPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Settings:    settings,
	}
}

// ToProject creates an empty project that uses the preset's settings.
func (p AtlasPreset) ToProject(projectName string) Project {
	proj := NewProject()
	proj.Name = projectName
	proj.Settings = p.Settings
	return proj
}

// BuiltinPresets returns the page layouts offered out of the box.
func BuiltinPresets() []AtlasPreset {
	mk := func(name, desc string, w, h, pad int) AtlasPreset {
		s := DefaultSettings()
		s.PageWidth, s.PageHeight, s.Padding = w, h, pad
		return AtlasPreset{ID: name, Name: name, Description: desc, Settings: s}
	}
	return []AtlasPreset{
		mk("Mobile 1024", "1024x1024 pages for low-memory GPUs", 1024, 1024, 1),
		mk("Desktop 2048", "2048x2048 pages", 2048, 2048, 2),
		mk("Desktop 4096", "4096x4096 pages for large sprite sets", 4096, 4096, 2),
		mk("Glyph 512", "512x512 pages for font glyph caches", 512, 512, 1),
	}
}

// PresetStore holds user-defined presets.
type PresetStore struct {
	Presets []AtlasPreset `json:"presets"`
}

func NewPresetStore() PresetStore {
	return PresetStore{Presets: []AtlasPreset{}}
}

// Add appends a preset to the store.
func (ps *PresetStore) Add(p AtlasPreset) {
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *AtlasPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName looks up a user preset first, then a built-in one.
func (ps *PresetStore) FindByName(name string) *AtlasPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	for _, p := range BuiltinPresets() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// Names lists built-in presets followed by user presets, for dropdowns.
func (ps *PresetStore) Names() []string {
	var names []string
	for _, p := range BuiltinPresets() {
		names = append(names, p.Name)
	}
	for _, p := range ps.Presets {
		names = append(names, p.Name)
	}
	return names
}
