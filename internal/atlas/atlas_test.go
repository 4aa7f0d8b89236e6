package atlas

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFactory names pages in creation order.
func countingFactory() PageFactory[string] {
	n := 0
	return func(w, h uint16) (string, error) {
		name := fmt.Sprintf("page-%d-%dx%d", n, w, h)
		n++
		return name, nil
	}
}

func newTestAtlas(t *testing.T, w, h uint16) *Atlas[string, int] {
	t.Helper()
	a, err := New[string, int](w, h, countingFactory())
	require.NoError(t, err)
	return a
}

func TestNew_RejectsSmallPages(t *testing.T) {
	for _, size := range [][2]uint16{{7, 64}, {64, 7}, {0, 0}} {
		_, err := New[string, int](size[0], size[1], countingFactory())
		assert.ErrorIs(t, err, ErrPageTooSmall, "size %v", size)
	}
}

func TestNew_AcceptsMinimumPage(t *testing.T) {
	a, err := New[string, int](MinPageSize, MinPageSize, countingFactory())
	require.NoError(t, err)
	w, h := a.PageSize()
	assert.Equal(t, uint16(8), w)
	assert.Equal(t, uint16(8), h)
	assert.Equal(t, 0, a.PageCount())
	assert.Equal(t, 0, a.TileCount())
}

func TestNew_NilFactory(t *testing.T) {
	_, err := New[string, int](64, 64, nil)
	assert.ErrorIs(t, err, ErrNilFactory)
}

func TestInsertTile_FirstRefIsZero(t *testing.T) {
	a := newTestAtlas(t, 64, 64)

	ref, err := a.InsertTile(10, 10, 42)
	require.NoError(t, err)
	assert.Equal(t, TileRef(0), ref)
	assert.Equal(t, 1, a.TileCount())

	tile, ok := a.Tile(ref)
	require.True(t, ok)
	assert.Equal(t, 42, tile.Payload)
	assert.Equal(t, 0, tile.Page)
}

func TestTile_OutOfRange(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	_, ok := a.Tile(0)
	assert.False(t, ok)
	_, ok = a.Tile(-1)
	assert.False(t, ok)
	_, ok = a.Page(0)
	assert.False(t, ok)
	assert.Nil(t, a.Rows(0))
	assert.Equal(t, 0, a.FreeArea(3))
}

func TestPage_ReturnsFactoryResource(t *testing.T) {
	a := newTestAtlas(t, 64, 32)
	_, err := a.InsertTile(64, 32, 0)
	require.NoError(t, err)
	_, err = a.InsertTile(1, 1, 1)
	require.NoError(t, err)

	require.Equal(t, 2, a.PageCount())
	base, ok := a.Page(1)
	require.True(t, ok)
	assert.Equal(t, "page-1-64x32", base)
}

func TestInsertTile_FactoryErrorOnFirstPage(t *testing.T) {
	boom := errors.New("out of video memory")
	a, err := New[string, int](64, 64, func(w, h uint16) (string, error) {
		return "", boom
	})
	require.NoError(t, err)

	_, err = a.InsertTile(8, 8, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPageFactory)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, a.PageCount())
	assert.Equal(t, 0, a.TileCount())
}

func TestInsertTile_FactoryErrorLeavesAtlasUnchanged(t *testing.T) {
	calls := 0
	a, err := New[string, int](64, 64, func(w, h uint16) (string, error) {
		calls++
		if calls > 1 {
			return "", errors.New("limit reached")
		}
		return "only", nil
	})
	require.NoError(t, err)

	_, err = a.InsertTile(64, 64, 0)
	require.NoError(t, err)
	before := a.Rows(0)

	_, err = a.InsertTile(1, 1, 1)
	assert.ErrorIs(t, err, ErrPageFactory)
	assert.Equal(t, 1, a.PageCount())
	assert.Equal(t, 1, a.TileCount())
	assert.Equal(t, before, a.Rows(0), "rows must not change when the factory fails")
}

func TestClear_DropsEverything(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	for i := 0; i < 10; i++ {
		_, err := a.InsertTile(40, 40, i)
		require.NoError(t, err)
	}
	require.Equal(t, 10, a.PageCount())

	a.Clear()
	assert.Equal(t, 0, a.PageCount())
	assert.Equal(t, 0, a.TileCount())
	assert.Empty(t, a.Tiles())

	ref, err := a.InsertTile(8, 8, 99)
	require.NoError(t, err)
	assert.Equal(t, TileRef(0), ref)
	tile, _ := a.Tile(ref)
	assert.Equal(t, 0, tile.Page)
}

func TestTiles_ReturnsCopy(t *testing.T) {
	a := newTestAtlas(t, 64, 64)
	_, err := a.InsertTile(8, 8, 1)
	require.NoError(t, err)

	tiles := a.Tiles()
	tiles[0].X = 50
	got, _ := a.Tile(0)
	assert.Equal(t, uint16(0), got.X)
}

func TestTile_UV(t *testing.T) {
	tile := Tile[int]{X: 32, Y: 16, W: 32, H: 16}
	uv := tile.UV(64, 64)
	assert.InDelta(t, 0.5, uv.U0, 1e-9)
	assert.InDelta(t, 0.25, uv.V0, 1e-9)
	assert.InDelta(t, 1.0, uv.U1, 1e-9)
	assert.InDelta(t, 0.5, uv.V1, 1e-9)

	assert.Equal(t, UVRect{}, tile.UV(0, 64))
}
