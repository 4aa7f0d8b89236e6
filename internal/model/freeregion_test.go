package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFreeRegions_DropsSliversAndSorts(t *testing.T) {
	regions := []FreeRegion{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 0, Y: 10, Width: 64, Height: 2},
		{X: 10, Y: 0, Width: 20, Height: 20},
		{X: 30, Y: 0, Width: 0, Height: 30},
	}

	got := FilterFreeRegions(regions, 4)
	require.Len(t, got, 2)
	assert.Equal(t, 400, got[0].Area())
	assert.Equal(t, 100, got[1].Area())
}

func TestFreeRegion_Fits(t *testing.T) {
	r := FreeRegion{Width: 16, Height: 8}
	assert.True(t, r.Fits(16, 8))
	assert.False(t, r.Fits(8, 16))
}

func TestAllFreeRegions(t *testing.T) {
	result := PackResult{Pages: []PageResult{
		{FreeRegions: []FreeRegion{{Page: 0, Width: 4, Height: 4}}},
		{FreeRegions: []FreeRegion{{Page: 1, Width: 2, Height: 3}, {Page: 1, Width: 1, Height: 1}}},
	}}
	all := AllFreeRegions(result)
	assert.Len(t, all, 3)
	assert.Equal(t, 23, TotalFreeArea(all))
}
