package atlas

import "slices"

// end returns the x coordinate just past the row's last cell.
func (r *row) end() uint16 {
	last := r.cells[len(r.cells)-1]
	return last.x + last.w
}

// occupy records a tile of width w whose bottom edge sits top texels below
// the row origin, at the left edge of cell ci.
func (r *row) occupy(ci int, w, top uint16) {
	c := r.cells[ci]
	if w < c.w {
		r.cells[ci] = cell{x: c.x + w, w: c.w - w, h: c.h}
		r.cells = slices.Insert(r.cells, ci, cell{x: c.x, w: w, h: top})
	} else if top > c.h {
		r.cells[ci].h = top
	}
	r.merge(ci)
}

// merge joins cell ci with equal-height neighbours.
func (r *row) merge(ci int) {
	if ci > 0 && r.cells[ci-1].h == r.cells[ci].h {
		r.cells[ci-1].w += r.cells[ci].w
		r.cells = slices.Delete(r.cells, ci, ci+1)
		ci--
	}
	if ci+1 < len(r.cells) && r.cells[ci+1].h == r.cells[ci].h {
		r.cells[ci].w += r.cells[ci+1].w
		r.cells = slices.Delete(r.cells, ci+1, ci+2)
	}
}

// CellInfo is a read-only view of a free segment in a row.
type CellInfo struct {
	X    uint16 `json:"x"`
	W    uint16 `json:"w"`
	Used uint16 `json:"used"`
}

// RowInfo is a read-only view of a row and its cells.
type RowInfo struct {
	Y      uint16     `json:"y"`
	H      uint16     `json:"h"`
	Sealed bool       `json:"sealed"`
	Cells  []CellInfo `json:"cells"`
}

// Rows returns a snapshot of the rows on page i, top to bottom.
func (a *Atlas[B, P]) Rows(i int) []RowInfo {
	if i < 0 || i >= len(a.pages) {
		return nil
	}
	rows := a.pages[i].rows
	out := make([]RowInfo, len(rows))
	for ri, r := range rows {
		cells := make([]CellInfo, len(r.cells))
		for ci, c := range r.cells {
			cells[ci] = CellInfo{X: c.x, W: c.w, Used: c.h}
		}
		out[ri] = RowInfo{Y: r.y, H: r.h, Sealed: r.sealed, Cells: cells}
	}
	return out
}

// FreeArea returns the number of texels on page i not covered by a tile.
// It counts space above each cell, the unused tail of each row and the
// strip below the last row.
func (a *Atlas[B, P]) FreeArea(i int) int {
	if i < 0 || i >= len(a.pages) {
		return 0
	}
	rows := a.pages[i].rows
	free := 0
	for _, r := range rows {
		for _, c := range r.cells {
			free += int(c.w) * (int(r.h) - int(c.h))
		}
		free += (int(a.pageW) - int(r.end())) * int(r.h)
	}
	last := rows[len(rows)-1]
	free += int(a.pageW) * (int(a.pageH) - int(last.y) - int(last.h))
	return free
}
