package highlight

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// newTestPipeline builds a pipeline from Default with optional tweaks.
func newTestPipeline(t *testing.T, tweak func(*config.Config)) *Pipeline {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(&cfg)
	}
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

// squaresImage paints a gray background with bright gray rectangles.
func squaresImage(width, height int, bg, fg uint8, rects ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{bg, bg, bg, 255})
		}
	}
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetRGBA(x, y, color.RGBA{fg, fg, fg, 255})
			}
		}
	}
	return img
}

// edgeGrid returns a width x height edge map filled with v.
func edgeGrid(width, height int, v uint8) *grid.Grid[uint8] {
	g := grid.New[uint8](width, height)
	g.Fill(v)
	return g
}

// heatMapFromRows wraps unbordered crisp rows in the zero border the
// automaton expects.
func heatMapFromRows(t *testing.T, rows [][]int, hottest, mean int) *HeatMap {
	t.Helper()
	g, err := grid.FromRows(rows)
	require.NoError(t, err)
	return &HeatMap{Grid: g.Pad(1, 0), Max: hottest, Mean: mean}
}

// pointsFromRows builds a point grid from strings of '#' (on) and '.' (off).
func pointsFromRows(t *testing.T, rows ...string) *grid.Grid[bool] {
	t.Helper()
	cells := make([][]bool, len(rows))
	for y, row := range rows {
		cells[y] = make([]bool, len(row))
		for x, ch := range row {
			cells[y][x] = ch == '#'
		}
	}
	g, err := grid.FromRows(cells)
	require.NoError(t, err)
	return g
}

// lcg is a tiny deterministic generator so random-grid tests are stable
// across Go releases.
type lcg uint32

func (l *lcg) intn(n int) int {
	*l = *l*1664525 + 1013904223
	return int(uint32(*l)>>8) % n
}
