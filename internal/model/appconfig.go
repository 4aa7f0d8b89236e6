package model

// maxRecentProjects caps the recent projects list.
const maxRecentProjects = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default atlas settings applied to new projects
	DefaultPageWidth  int       `json:"default_page_width"`
	DefaultPageHeight int       `json:"default_page_height"`
	DefaultPadding    int       `json:"default_padding"`
	DefaultSortOrder  SortOrder `json:"default_sort_order"`
	DefaultMaxPages   int       `json:"default_max_pages"`

	// Application preferences
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn", "error"
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig whose defaults match DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPageWidth:  defaults.PageWidth,
		DefaultPageHeight: defaults.PageHeight,
		DefaultPadding:    defaults.Padding,
		DefaultSortOrder:  defaults.SortOrder,
		DefaultMaxPages:   defaults.MaxPages,
		LogLevel:          "info",
		RecentProjects:    []string{},
		Theme:             "system",
	}
}

// ApplyToSettings copies the saved defaults into s, so new projects inherit them.
func (c AppConfig) ApplyToSettings(s *AtlasSettings) {
	s.PageWidth = c.DefaultPageWidth
	s.PageHeight = c.DefaultPageHeight
	s.Padding = c.DefaultPadding
	s.SortOrder = c.DefaultSortOrder
	s.MaxPages = c.DefaultMaxPages
}

// AddRecentProject moves path to the front of the recent list.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(recent) < maxRecentProjects {
			recent = append(recent, p)
		}
	}
	c.RecentProjects = recent
}
