package atlas

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pos struct {
	x, y uint16
	page int
}

func insertAll(t *testing.T, a *Atlas[string, int], sizes [][2]uint16) []pos {
	t.Helper()
	out := make([]pos, 0, len(sizes))
	for i, s := range sizes {
		ref, err := a.InsertTile(s[0], s[1], i)
		require.NoError(t, err)
		tile, ok := a.Tile(ref)
		require.True(t, ok)
		out = append(out, pos{tile.X, tile.Y, tile.Page})
	}
	return out
}

// ─── Scenarios ──────────────────────────────────────────

func TestInsertTile_FourQuartersThenNewPage(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	got := insertAll(t, a, [][2]uint16{{32, 32}, {32, 32}, {32, 32}, {32, 32}, {32, 32}})

	assert.Equal(t, []pos{
		{0, 0, 0},
		{32, 0, 0},
		{0, 32, 0},
		{32, 32, 0},
		{0, 0, 1},
	}, got)
	assert.Equal(t, 2, a.PageCount())
	assert.Equal(t, 0, a.FreeArea(0))
}

func TestInsertTile_NewRowThenNewPage(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	got := insertAll(t, a, [][2]uint16{{64, 10}, {64, 54}, {1, 1}})

	assert.Equal(t, []pos{{0, 0, 0}, {0, 10, 0}, {0, 0, 1}}, got)

	rows := a.Rows(0)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Sealed, "opening a row seals the one above")
	assert.Equal(t, uint16(10), rows[1].Y)
}

func TestInsertTile_ExtendRowSealsAtPageEdge(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	insertAll(t, a, [][2]uint16{{32, 20}, {32, 12}})

	rows := a.Rows(0)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Sealed)
	assert.Equal(t, uint16(20), rows[0].H, "row keeps its tallest tile height")
	assert.Equal(t, []CellInfo{{X: 0, W: 32, Used: 20}, {X: 32, W: 32, Used: 12}}, rows[0].Cells)
}

func TestInsertTile_StacksIntoCellGap(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	got := insertAll(t, a, [][2]uint16{{32, 32}, {16, 16}, {16, 16}})

	assert.Equal(t, pos{32, 0, 0}, got[1])
	assert.Equal(t, pos{32, 16, 0}, got[2], "second small tile fills the gap under the first")

	rows := a.Rows(0)
	require.Len(t, rows, 1)
	assert.Equal(t, []CellInfo{{X: 0, W: 48, Used: 32}}, rows[0].Cells, "equal-height cells merge")
}

func TestInsertTile_SplitsWideCell(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	got := insertAll(t, a, [][2]uint16{{32, 32}, {8, 8}, {4, 8}})

	assert.Equal(t, pos{32, 8, 0}, got[2])
	assert.Equal(t, []CellInfo{
		{X: 0, W: 32, Used: 32},
		{X: 32, W: 4, Used: 16},
		{X: 36, W: 4, Used: 8},
	}, a.Rows(0)[0].Cells)
}

func TestInsertTile_BestFitTieKeepsFirstCell(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	got := insertAll(t, a, [][2]uint16{{32, 32}, {8, 8}, {4, 8}, {4, 8}})

	// Both 4-wide cells fit; the left one is found first.
	assert.Equal(t, pos{32, 16, 0}, got[3])
	assert.Equal(t, []CellInfo{
		{X: 0, W: 32, Used: 32},
		{X: 32, W: 4, Used: 24},
		{X: 36, W: 4, Used: 8},
	}, a.Rows(0)[0].Cells)
}

func TestInsertTile_PrefersNarrowestCell(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	// Row 0 keeps a 16-wide gap, row 1 a 4-wide gap.
	insertAll(t, a, [][2]uint16{{48, 16}, {16, 8}, {56, 16}, {4, 12}})
	got := insertAll(t, a, [][2]uint16{{4, 4}})

	assert.Equal(t, pos{56, 28, 0}, got[0])
}

func TestInsertTile_ExtendPrefersShortestRow(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	// Row 0 is sealed at height 16 with 24 px left; row 1 is open with
	// 48 px of height and 24 px left.
	insertAll(t, a, [][2]uint16{{40, 16}, {40, 20}})
	rows := a.Rows(0)
	require.Len(t, rows, 2)
	require.True(t, rows[0].Sealed)
	require.False(t, rows[1].Sealed)

	got := insertAll(t, a, [][2]uint16{{8, 10}})
	assert.Equal(t, pos{40, 0, 0}, got[0], "sealed row 0 offers the smaller height")
	assert.Equal(t, uint16(16), a.Rows(0)[0].H, "a sealed row does not grow")
}

func TestInsertTile_ExtendSkipsSealedRowTooShort(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	insertAll(t, a, [][2]uint16{{40, 16}, {40, 20}})

	// 20 px exceeds sealed row 0's height, so only open row 1 qualifies.
	got := insertAll(t, a, [][2]uint16{{8, 20}})
	assert.Equal(t, pos{40, 16, 0}, got[0])
	assert.Equal(t, uint16(20), a.Rows(0)[1].H)
}

func TestInsertTile_ExtendTieOnHeightPrefersLeastWidth(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	// Rows 0 and 1 end up sealed at height 16 with 24 and 16 px left.
	insertAll(t, a, [][2]uint16{{40, 16}, {48, 16}, {64, 8}})
	rows := a.Rows(0)
	require.Len(t, rows, 3)
	require.True(t, rows[0].Sealed)
	require.True(t, rows[1].Sealed)

	got := insertAll(t, a, [][2]uint16{{8, 12}})
	assert.Equal(t, pos{48, 16, 0}, got[0], "row 1 leaves the least width")
}

func TestInsertTile_ClampsSize(t *testing.T) {
	a := newTestAtlas(t, 64, 48)

	ref, err := a.InsertTile(0, 100, 0)
	require.NoError(t, err)
	tile, _ := a.Tile(ref)
	assert.Equal(t, uint16(1), tile.W)
	assert.Equal(t, uint16(48), tile.H)

	ref, err = a.InsertTile(1000, 0, 1)
	require.NoError(t, err)
	tile, _ = a.Tile(ref)
	assert.Equal(t, uint16(64), tile.W)
	assert.Equal(t, uint16(1), tile.H)
}

func TestInsertTile_FullPageTile(t *testing.T) {
	a := newTestAtlas(t, 16, 16)
	got := insertAll(t, a, [][2]uint16{{16, 16}, {16, 16}, {16, 16}})
	assert.Equal(t, []pos{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}}, got)
}

// ─── Properties ─────────────────────────────────────────

func randomSizes(seed int64, n int, maxW, maxH int) [][2]uint16 {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([][2]uint16, n)
	for i := range sizes {
		sizes[i] = [2]uint16{uint16(rng.Intn(maxW) + 1), uint16(rng.Intn(maxH) + 1)}
	}
	return sizes
}

func overlaps(a, b Tile[int]) bool {
	return a.Page == b.Page &&
		a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestInsertTile_RandomNoOverlapAndContained(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		a := newTestAtlas(t, 128, 96)
		pages := 0
		for i, s := range randomSizes(seed, 300, 48, 40) {
			_, err := a.InsertTile(s[0], s[1], i)
			require.NoError(t, err)
			require.GreaterOrEqual(t, a.PageCount(), pages, "page count never shrinks")
			pages = a.PageCount()
			assertCellInvariants(t, a)
		}

		tiles := a.Tiles()
		for i, ti := range tiles {
			assert.LessOrEqual(t, int(ti.X)+int(ti.W), 128, "tile %d exceeds page width", i)
			assert.LessOrEqual(t, int(ti.Y)+int(ti.H), 96, "tile %d exceeds page height", i)
			assert.Less(t, ti.Page, a.PageCount())
			for j := i + 1; j < len(tiles); j++ {
				require.False(t, overlaps(ti, tiles[j]), "seed %d: tiles %d and %d overlap", seed, i, j)
			}
		}

		for p := 0; p < a.PageCount(); p++ {
			used := 0
			for _, ti := range tiles {
				if ti.Page == p {
					used += int(ti.W) * int(ti.H)
				}
			}
			assert.Equal(t, 128*96-used, a.FreeArea(p), "seed %d page %d free area", seed, p)
		}
	}
}

func assertCellInvariants(t *testing.T, a *Atlas[string, int]) {
	t.Helper()
	pw, _ := a.PageSize()
	for p := 0; p < a.PageCount(); p++ {
		rows := a.Rows(p)
		for ri, r := range rows {
			require.NotEmpty(t, r.Cells)
			if ri < len(rows)-1 {
				require.True(t, r.Sealed, "only the last row of a page may grow")
				require.Equal(t, r.Y+r.H, rows[ri+1].Y, "rows are stacked without gaps")
			}
			x := uint16(0)
			for ci, c := range r.Cells {
				require.Equal(t, x, c.X, "cells are contiguous")
				require.LessOrEqual(t, c.Used, r.H)
				if ci > 0 {
					require.NotEqual(t, r.Cells[ci-1].Used, c.Used, "adjacent cells must differ in height")
				}
				x += c.W
			}
			require.LessOrEqual(t, x, pw)
		}
	}
}

func TestInsertTile_Deterministic(t *testing.T) {
	sizes := randomSizes(42, 200, 60, 60)
	a := newTestAtlas(t, 256, 256)
	b := newTestAtlas(t, 256, 256)
	assert.Equal(t, insertAll(t, a, sizes), insertAll(t, b, sizes))
}

func TestReads_StableAcrossLaterInserts(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	sizes := randomSizes(7, 60, 20, 20)

	var refs []TileRef
	var captured []Tile[int]
	var pageBases []string
	for i, s := range sizes {
		ref, err := a.InsertTile(s[0], s[1], i)
		require.NoError(t, err)
		tile, ok := a.Tile(ref)
		require.True(t, ok)
		refs = append(refs, ref)
		captured = append(captured, tile)
		for len(pageBases) < a.PageCount() {
			base, ok := a.Page(len(pageBases))
			require.True(t, ok)
			pageBases = append(pageBases, base)
		}

		for j, r := range refs {
			again, ok := a.Tile(r)
			require.True(t, ok)
			require.Equal(t, captured[j], again, "tile %d changed after insert %d", j, i)
		}
		for p, want := range pageBases {
			got, _ := a.Page(p)
			require.Equal(t, want, got, "page %d base changed after insert %d", p, i)
		}
	}
	require.Greater(t, a.PageCount(), 1, "inserts should span several pages")
	assert.Equal(t, captured, a.Tiles())
}
