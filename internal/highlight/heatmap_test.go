package highlight

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
)

func cellSize(n int) func(*config.Config) {
	return func(c *config.Config) { c.CellSize = n }
}

func TestBuildHeatMap_AllEdges(t *testing.T) {
	p := newTestPipeline(t, cellSize(2))
	edges := edgeGrid(4, 4, Edge)

	bricks, err := p.BrickHeat(edges)
	require.NoError(t, err)
	want := [][]int{
		{4, 4, 4},
		{4, 4, 4},
		{4, 4, 4},
	}
	if diff := cmp.Diff(want, bricks.Rows()); diff != "" {
		t.Errorf("bricks mismatch (-want +got):\n%s", diff)
	}

	hm, err := p.BuildHeatMap(edges)
	require.NoError(t, err)
	wantCrisp := [][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 1, 2, 2, 1, 0},
		{0, 2, 4, 4, 2, 0},
		{0, 2, 4, 4, 2, 0},
		{0, 1, 2, 2, 1, 0},
		{0, 0, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(wantCrisp, hm.Grid.Rows()); diff != "" {
		t.Errorf("crisp grid mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, hm.Max)
	assert.Equal(t, 2, hm.Mean) // 36 heat over 16 positive cells
	assert.Equal(t, 16, hm.Positive)
}

func TestBuildHeatMap_NoEdges(t *testing.T) {
	p := newTestPipeline(t, cellSize(2))

	hm, err := p.BuildHeatMap(edgeGrid(4, 4, Background))
	require.True(t, errors.Is(err, ErrNoActivity), "got %v", err)
	require.NotNil(t, hm)
	assert.Equal(t, 1, hm.Max, "heat_max is floored at 1")
	assert.Equal(t, 0, hm.Positive)
	assert.Equal(t, 0, hm.Grid.Count(func(v int) bool { return v != 0 }))
	assert.Empty(t, ExtractObjects(Threshold(hm.Grid)))
}

func TestBuildHeatMap_RectangularImage(t *testing.T) {
	p := newTestPipeline(t, cellSize(4))

	hm, err := p.BuildHeatMap(edgeGrid(8, 4, Edge))
	require.NoError(t, err)
	want := [][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 4, 8, 8, 4, 0},
		{0, 4, 8, 8, 4, 0},
		{0, 0, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, hm.Grid.Rows()); diff != "" {
		t.Errorf("crisp grid mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, hm.Max)
	assert.Equal(t, 6, hm.Mean)
}

func TestBuildHeatMap_SingleEdgePixel(t *testing.T) {
	p := newTestPipeline(t, cellSize(4))
	edges := edgeGrid(8, 8, Background)
	edges.Set(3, 3, Edge)

	bricks, err := p.BrickHeat(edges)
	require.NoError(t, err)
	// Pixel (3,3) lies in bricks starting at 0 and 2 on both axes.
	want := [][]int{
		{1, 1, 0},
		{1, 1, 0},
		{0, 0, 0},
	}
	if diff := cmp.Diff(want, bricks.Rows()); diff != "" {
		t.Errorf("bricks mismatch (-want +got):\n%s", diff)
	}

	hm, err := p.BuildHeatMap(edges)
	require.NoError(t, err)
	// Only the crisp cell averaging all four bricks reaches 1.
	assert.Equal(t, 1, hm.Positive)
	assert.Equal(t, 1, hm.Grid.Get(2, 2))
	assert.Equal(t, 1, hm.Max)
	assert.Equal(t, 1, hm.Mean)
}

func TestBuildHeatMap_DimensionMismatch(t *testing.T) {
	p := newTestPipeline(t, nil)

	_, err := p.BuildHeatMap(edgeGrid(12, 16, Edge))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = p.BrickHeat(edgeGrid(16, 12, Edge))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildHeatMap_NonNegativeAndBordered(t *testing.T) {
	p := newTestPipeline(t, cellSize(4))
	edges := edgeGrid(24, 16, Background)
	gen := lcg(7)
	for i := range edges.Cells() {
		if gen.intn(3) == 0 {
			edges.Cells()[i] = Edge
		}
	}

	hm, err := p.BuildHeatMap(edges)
	require.NoError(t, err)
	assert.Equal(t, 2*24/4+2, hm.Grid.Width())
	assert.Equal(t, 2*16/4+2, hm.Grid.Height())
	assert.GreaterOrEqual(t, hm.Max, 1)

	hm.Grid.Each(func(x, y, v int) {
		if v < 0 {
			t.Errorf("cell (%d,%d) = %d is negative", x, y, v)
		}
		if v > hm.Max {
			t.Errorf("cell (%d,%d) = %d exceeds max %d", x, y, v, hm.Max)
		}
		border := x == 0 || y == 0 || x == hm.Grid.Width()-1 || y == hm.Grid.Height()-1
		if border && v != 0 {
			t.Errorf("border cell (%d,%d) = %d, want 0", x, y, v)
		}
	})
}
