package highlight

import (
	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// HeatMap is the crisp edge-density grid handed to the automaton.
type HeatMap struct {
	// Grid is the crisp grid wrapped in a one-cell border of zeros. Cell
	// (x, y) of the unbordered grid lives at (x+1, y+1).
	Grid *grid.Grid[int]

	// Max is the hottest cell, never below 1.
	Max int

	// Mean is the floored mean over strictly positive cells.
	Mean int

	// Positive counts the cells with non-zero heat.
	Positive int
}

// BrickHeat partitions the edge map into CellSize squares laid out every
// CellSize/2 pixels, so neighbors overlap by half, and counts the edge
// pixels in each. An axis of length L yields 2L/CellSize-1 bricks.
//
// The edge map dimensions must be multiples of CellSize.
func (p *Pipeline) BrickHeat(edges *grid.Grid[uint8]) (*grid.Grid[int], error) {
	if err := p.cfg.CheckDimensions(edges.Width(), edges.Height()); err != nil {
		return nil, err
	}

	size, pitch := p.cfg.CellSize, p.cfg.Pitch()
	cols := 2*edges.Width()/size - 1
	rows := 2*edges.Height()/size - 1

	// Summed-area table of edge pixels, one row and column larger than
	// the edge map, so each brick is four lookups.
	w := edges.Width() + 1
	sat := make([]int, w*(edges.Height()+1))
	for y := 0; y < edges.Height(); y++ {
		run := 0
		for x, v := range edges.Row(y) {
			if v == Edge {
				run++
			}
			sat[(y+1)*w+x+1] = sat[y*w+x+1] + run
		}
	}

	bricks := grid.New[int](cols, rows)
	for by := 0; by < rows; by++ {
		y0, y1 := by*pitch, by*pitch+size
		for bx := 0; bx < cols; bx++ {
			x0, x1 := bx*pitch, bx*pitch+size
			bricks.Set(bx, by, sat[y1*w+x1]-sat[y0*w+x1]-sat[y1*w+x0]+sat[y0*w+x0])
		}
	}
	return bricks, nil
}

// BuildHeatMap computes the bordered crisp heat grid of an edge map.
//
// Each crisp cell averages the four bricks that overlap it, with integer
// division and zero for bricks beyond the edge. When no cell ends up
// positive the map is still returned, together with ErrNoActivity.
func (p *Pipeline) BuildHeatMap(edges *grid.Grid[uint8]) (*HeatMap, error) {
	bricks, err := p.BrickHeat(edges)
	if err != nil {
		return nil, err
	}

	cols := 2 * edges.Width() / p.cfg.CellSize
	rows := 2 * edges.Height() / p.cfg.CellSize
	crisp := grid.New[int](cols, rows)

	hottest, sum, positive := 0, 0, 0
	for y := 0; y < rows; y++ {
		row := crisp.Row(y)
		for x := 0; x < cols; x++ {
			heat := (bricks.At(x, y, 0) +
				bricks.At(x-1, y, 0) +
				bricks.At(x, y-1, 0) +
				bricks.At(x-1, y-1, 0)) / 4
			row[x] = heat
			hottest = max(hottest, heat)
			if heat > 0 {
				sum += heat
				positive++
			}
		}
	}

	hm := &HeatMap{
		Grid:     crisp.Pad(1, 0),
		Max:      max(hottest, 1),
		Positive: positive,
	}
	if positive == 0 {
		return hm, ErrNoActivity
	}
	hm.Mean = sum / positive
	return hm, nil
}
