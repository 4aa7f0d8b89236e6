package atlas

import "fmt"

// TileRef identifies a tile inside an Atlas. References are 0-based indices
// in insertion order and stay valid until Clear.
type TileRef int

// Tile is a placed rectangle. It is never mutated after InsertTile returns.
type Tile[P any] struct {
	X       uint16 `json:"x"`
	Y       uint16 `json:"y"`
	W       uint16 `json:"w"`
	H       uint16 `json:"h"`
	Payload P      `json:"payload"`
	Page    int    `json:"page"`
}

// UVRect is a tile rectangle in normalized page coordinates.
type UVRect struct {
	U0 float64 `json:"u0"`
	V0 float64 `json:"v0"`
	U1 float64 `json:"u1"`
	V1 float64 `json:"v1"`
}

// UV maps the tile's texel rectangle onto [0,1] for a page of the given size.
func (t Tile[P]) UV(pageW, pageH uint16) UVRect {
	if pageW == 0 || pageH == 0 {
		return UVRect{}
	}
	sx := 1.0 / float64(pageW)
	sy := 1.0 / float64(pageH)
	return UVRect{
		U0: float64(t.X) * sx,
		V0: float64(t.Y) * sy,
		U1: float64(t.X+t.W) * sx,
		V1: float64(t.Y+t.H) * sy,
	}
}

// PageFactory creates the resource backing a new page.
type PageFactory[B any] func(w, h uint16) (B, error)

type cell struct {
	x, w uint16
	h    uint16 // height already consumed from the top of the row
}

type row struct {
	y, h   uint16
	cells  []cell
	sealed bool
}

type page[B any] struct {
	base B
	rows []row
}

// Atlas owns every page and every tile placed on them.
type Atlas[B, P any] struct {
	pageW, pageH uint16
	factory      PageFactory[B]
	pages        []page[B]
	tiles        []Tile[P]
}

// New creates an empty atlas whose pages are w×h texels.
func New[B, P any](w, h uint16, factory PageFactory[B]) (*Atlas[B, P], error) {
	if w < MinPageSize || h < MinPageSize {
		return nil, fmt.Errorf("%w: %dx%d (minimum %d)", ErrPageTooSmall, w, h, MinPageSize)
	}
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &Atlas[B, P]{pageW: w, pageH: h, factory: factory}, nil
}

// PageSize returns the fixed page dimensions.
func (a *Atlas[B, P]) PageSize() (w, h uint16) {
	return a.pageW, a.pageH
}

// PageCount returns the number of pages created so far.
func (a *Atlas[B, P]) PageCount() int {
	return len(a.pages)
}

// Page returns the factory-created resource for page i.
func (a *Atlas[B, P]) Page(i int) (B, bool) {
	if i < 0 || i >= len(a.pages) {
		var zero B
		return zero, false
	}
	return a.pages[i].base, true
}

// TileCount returns the number of tiles placed so far.
func (a *Atlas[B, P]) TileCount() int {
	return len(a.tiles)
}

// Tile returns the tile for ref.
func (a *Atlas[B, P]) Tile(ref TileRef) (Tile[P], bool) {
	if ref < 0 || int(ref) >= len(a.tiles) {
		return Tile[P]{}, false
	}
	return a.tiles[ref], true
}

// Tiles returns a copy of all tiles, indexed by TileRef.
func (a *Atlas[B, P]) Tiles() []Tile[P] {
	out := make([]Tile[P], len(a.tiles))
	copy(out, a.tiles)
	return out
}

// Clear drops every page and tile. Previously returned references become invalid.
func (a *Atlas[B, P]) Clear() {
	a.pages = nil
	a.tiles = nil
}
