package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/piwi3910/TileAtlas/internal/atlas"
)

// Sprite is an image (or reserved region) that needs a place in the atlas.
type Sprite struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Width    int    `json:"width"`  // texels
	Height   int    `json:"height"` // texels
	Quantity int    `json:"quantity"`
	Source   string `json:"source,omitempty"` // file the sprite was imported from
}

func NewSprite(label string, w, h, qty int) Sprite {
	return Sprite{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Area returns the sprite area in texels.
func (s Sprite) Area() int {
	return s.Width * s.Height
}

// SortOrder selects how sprites are ordered before packing.
type SortOrder string

const (
	SortNone      SortOrder = "none"      // Keep input order
	SortArea      SortOrder = "area"      // Largest area first
	SortHeight    SortOrder = "height"    // Tallest first
	SortWidth     SortOrder = "width"     // Widest first
	SortPerimeter SortOrder = "perimeter" // Largest perimeter first
	SortMaxSide   SortOrder = "max-side"  // Longest side first
)

// SortOrders lists every supported order, in menu order.
func SortOrders() []SortOrder {
	return []SortOrder{SortNone, SortArea, SortHeight, SortWidth, SortPerimeter, SortMaxSide}
}

// ParseSortOrder converts user input into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	want := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if want == "" {
		return SortNone, nil
	}
	for _, o := range SortOrders() {
		if o == want {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Less reports whether a should be packed before b.
func (o SortOrder) Less(a, b Sprite) bool {
	switch o {
	case SortArea:
		return a.Area() > b.Area()
	case SortHeight:
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.Width > b.Width
	case SortWidth:
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		return a.Height > b.Height
	case SortPerimeter:
		return a.Width+a.Height > b.Width+b.Height
	case SortMaxSide:
		return max(a.Width, a.Height) > max(b.Width, b.Height)
	default:
		return false
	}
}

// AtlasSettings holds the packing configuration.
type AtlasSettings struct {
	PageWidth  int       `json:"page_width"`  // texels
	PageHeight int       `json:"page_height"` // texels
	Padding    int       `json:"padding"`     // Gap kept right of and below every sprite
	SortOrder  SortOrder `json:"sort_order"`
	MaxPages   int       `json:"max_pages"` // 0 = unlimited
}

// MaxPageSize is the largest page dimension the packer can address.
const MaxPageSize = 65535

func DefaultSettings() AtlasSettings {
	return AtlasSettings{
		PageWidth:  1024,
		PageHeight: 1024,
		Padding:    2,
		SortOrder:  SortHeight,
		MaxPages:   0,
	}
}

// Validate checks that the settings can drive a packing run.
func (s AtlasSettings) Validate() error {
	if s.PageWidth < atlas.MinPageSize || s.PageHeight < atlas.MinPageSize {
		return fmt.Errorf("page size %dx%d is below the minimum of %d", s.PageWidth, s.PageHeight, atlas.MinPageSize)
	}
	if s.PageWidth > MaxPageSize || s.PageHeight > MaxPageSize {
		return fmt.Errorf("page size %dx%d exceeds the maximum of %d", s.PageWidth, s.PageHeight, MaxPageSize)
	}
	if s.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", s.Padding)
	}
	if s.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative, got %d", s.MaxPages)
	}
	if _, err := ParseSortOrder(string(s.SortOrder)); err != nil {
		return err
	}
	return nil
}

// IsPowerOfTwo reports whether both page sides are powers of two, which
// older GPUs and mipmapped textures require.
func (s AtlasSettings) IsPowerOfTwo() bool {
	return isPowerOfTwo(s.PageWidth) && isPowerOfTwo(s.PageHeight)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// PageInfo describes one atlas page.
type PageInfo struct {
	ID     string `json:"id"`
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func NewPageInfo(index, w, h int) PageInfo {
	return PageInfo{
		ID:     uuid.New().String()[:8],
		Index:  index,
		Label:  fmt.Sprintf("Page %d", index+1),
		Width:  w,
		Height: h,
	}
}

// Placement is a sprite placed on a page. Padding is not included.
type Placement struct {
	Sprite Sprite       `json:"sprite"`
	X      int          `json:"x"`    // From left edge
	Y      int          `json:"y"`    // From top edge
	Page   int          `json:"page"` // Index into PackResult.Pages
	UV     atlas.UVRect `json:"uv"`
}

// Right returns the x coordinate just past the sprite.
func (p Placement) Right() int {
	return p.X + p.Sprite.Width
}

// Bottom returns the y coordinate just past the sprite.
func (p Placement) Bottom() int {
	return p.Y + p.Sprite.Height
}

// PageResult holds one page and the sprites on it.
type PageResult struct {
	Page        PageInfo     `json:"page"`
	Placements  []Placement  `json:"placements"`
	FreeRegions []FreeRegion `json:"free_regions,omitempty"`
}

// UsedArea returns the texels covered by sprites.
func (pr PageResult) UsedArea() int {
	total := 0
	for _, p := range pr.Placements {
		total += p.Sprite.Area()
	}
	return total
}

// TotalArea returns the page area.
func (pr PageResult) TotalArea() int {
	return pr.Page.Width * pr.Page.Height
}

// Efficiency returns the usage percentage.
func (pr PageResult) Efficiency() float64 {
	ta := pr.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(pr.UsedArea()) / float64(ta) * 100.0
}

// PackResult holds the full packing outcome.
type PackResult struct {
	Pages    []PageResult `json:"pages"`
	Unplaced []Sprite     `json:"unplaced"`
}

// TotalEfficiency returns the overall usage percentage across all pages.
func (r PackResult) TotalEfficiency() float64 {
	used, total := 0, 0
	for _, p := range r.Pages {
		used += p.UsedArea()
		total += p.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100.0
}

// PlacementCount returns the number of placed sprites.
func (r PackResult) PlacementCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Placements)
	}
	return n
}

// FindSprite returns every placement of the sprite with the given ID.
func (r PackResult) FindSprite(id string) []Placement {
	var out []Placement
	for _, p := range r.Pages {
		for _, pl := range p.Placements {
			if pl.Sprite.ID == id {
				out = append(out, pl)
			}
		}
	}
	return out
}

// Project ties everything together for save/load.
type Project struct {
	Name     string        `json:"name"`
	Sprites  []Sprite      `json:"sprites"`
	Settings AtlasSettings `json:"settings"`
	Result   *PackResult   `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Sprites:  []Sprite{},
		Settings: DefaultSettings(),
	}
}
