package atlas

import "fmt"

// InsertTile places a w×h tile and returns its reference. Sizes are clamped
// to [1, page size]. The only failure is an error from the page factory, in
// which case the atlas is left unchanged.
func (a *Atlas[B, P]) InsertTile(w, h uint16, payload P) (TileRef, error) {
	w = clamp(w, a.pageW)
	h = clamp(h, a.pageH)

	pi, ri, ci, offset, ok := a.bestCell(w, h)
	if !ok {
		pi, ri, ci, ok = a.extendRow(w, h)
	}
	if !ok {
		pi, ri, ci, ok = a.appendRow(w, h)
	}
	if !ok {
		var err error
		pi, ri, ci, err = a.appendPage(w, h)
		if err != nil {
			return -1, err
		}
	}

	r := &a.pages[pi].rows[ri]
	tile := Tile[P]{
		X:       r.cells[ci].x,
		Y:       r.y + offset,
		W:       w,
		H:       h,
		Payload: payload,
		Page:    pi,
	}
	r.occupy(ci, w, offset+h)

	a.tiles = append(a.tiles, tile)
	return TileRef(len(a.tiles) - 1), nil
}

func clamp(v, limit uint16) uint16 {
	if v < 1 {
		return 1
	}
	if v > limit {
		return limit
	}
	return v
}

// bestCell finds the narrowest cell that can take the tile below its
// consumed height. Ties keep the first cell found.
func (a *Atlas[B, P]) bestCell(w, h uint16) (pi, ri, ci int, offset uint16, ok bool) {
	var bestW uint16
	for p := range a.pages {
		for r := range a.pages[p].rows {
			rw := &a.pages[p].rows[r]
			if h > rw.h {
				continue
			}
			for c, cl := range rw.cells {
				if w > cl.w || int(h) > int(rw.h)-int(cl.h) {
					continue
				}
				if !ok || cl.w < bestW {
					pi, ri, ci, offset, ok = p, r, c, cl.h, true
					bestW = cl.w
				}
			}
		}
	}
	return pi, ri, ci, offset, ok
}

// extendRow appends a cell at the right end of the row with the least
// available height, then the least remaining width.
func (a *Atlas[B, P]) extendRow(w, h uint16) (pi, ri, ci int, ok bool) {
	var bestH, bestRemaining int
	for p := range a.pages {
		for r := range a.pages[p].rows {
			rw := &a.pages[p].rows[r]
			rowH := int(rw.h)
			if !rw.sealed {
				rowH = int(a.pageH) - int(rw.y)
			}
			remaining := int(a.pageW) - int(rw.end())
			if int(h) > rowH || int(w) > remaining {
				continue
			}
			if !ok || rowH < bestH || (rowH == bestH && remaining < bestRemaining) {
				pi, ri, ok = p, r, true
				bestH, bestRemaining = rowH, remaining
			}
		}
	}
	if !ok {
		return 0, 0, 0, false
	}

	rw := &a.pages[pi].rows[ri]
	x := rw.end()
	rw.cells = append(rw.cells, cell{x: x, w: w})
	if !rw.sealed {
		if h > rw.h {
			rw.h = h
		}
		if x+w == a.pageW {
			rw.sealed = true
		}
	}
	return pi, ri, len(rw.cells) - 1, true
}

// appendRow opens a new row under the last row of the first page with
// enough height left.
func (a *Atlas[B, P]) appendRow(w, h uint16) (pi, ri, ci int, ok bool) {
	for p := range a.pages {
		pg := &a.pages[p]
		last := &pg.rows[len(pg.rows)-1]
		top := last.y + last.h
		if int(h) > int(a.pageH)-int(top) {
			continue
		}
		last.sealed = true
		pg.rows = append(pg.rows, row{y: top, h: h, cells: []cell{{x: 0, w: w}}})
		return p, len(pg.rows) - 1, 0, true
	}
	return 0, 0, 0, false
}

func (a *Atlas[B, P]) appendPage(w, h uint16) (pi, ri, ci int, err error) {
	base, err := a.factory(a.pageW, a.pageH)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %w", ErrPageFactory, err)
	}
	if n := len(a.pages); n > 0 {
		rows := a.pages[n-1].rows
		rows[len(rows)-1].sealed = true
	}
	a.pages = append(a.pages, page[B]{
		base: base,
		rows: []row{{y: 0, h: h, cells: []cell{{x: 0, w: w}}}},
	})
	return len(a.pages) - 1, 0, 0, nil
}
