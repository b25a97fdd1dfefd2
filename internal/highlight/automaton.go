package highlight

import (
	"fmt"
	"sync/atomic"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// Trace describes how the automaton reached (or failed to reach) its fixed
// point.
type Trace struct {
	// Changed holds the number of cells updated in each pass. The last
	// entry is 0 when the automaton converged.
	Changed []int `json:"changed" yaml:"changed"`

	// Stalled counts interior cells left strictly between 0 and heat_max
	// at the end. They sit exactly on heat_mean's neighborhood average,
	// where the grow rule adds nothing.
	Stalled int `json:"stalled" yaml:"stalled"`
}

// Passes is the number of passes the automaton ran.
func (t Trace) Passes() int {
	return len(t.Changed)
}

// transition is the outcome of the rule for one cell.
type transition int

const (
	die transition = iota
	decay
	grow
)

func (t transition) String() string {
	switch t {
	case die:
		return "die"
	case decay:
		return "decay"
	case grow:
		return "grow"
	}
	return fmt.Sprintf("transition(%d)", int(t))
}

// classify picks the transition for a cell with the given heat whose
// neighbors average n.
func classify(heat, n, mean int) transition {
	switch {
	case n < min(mean, heat):
		return die
	case n < mean:
		return decay
	default:
		return grow
	}
}

func (t transition) apply(heat, n, mean, hottest int) int {
	switch t {
	case die:
		return 0
	case decay:
		return max(0, heat-mean+n)
	case grow:
		return min(hottest, heat+n-mean)
	}
	panic("highlight: unreachable transition " + t.String())
}

// Stabilize relaxes the heat map until every cell either stops changing or
// the iteration cap is hit. Cells at 0 or hm.Max are frozen. Every pass reads
// one snapshot and writes the next, so update order does not matter.
//
// The input grid is not modified. On ErrNonConvergence the partially relaxed
// grid and the trace are still returned.
func (p *Pipeline) Stabilize(hm *HeatMap) (*grid.Grid[int], Trace, error) {
	cur := hm.Grid.Clone()
	clearBorder(cur)

	var trace Trace
	for pass := 0; pass < p.cfg.MaxIterations; pass++ {
		next, changed := p.relax(cur, hm.Mean, hm.Max)
		cur = next
		trace.Changed = append(trace.Changed, changed)
		if changed == 0 {
			trace.Stalled = countStalled(cur, hm.Max)
			return cur, trace, nil
		}
	}

	trace.Stalled = countStalled(cur, hm.Max)
	last := trace.Changed[len(trace.Changed)-1]
	return cur, trace, fmt.Errorf("%w: %d cells still changing after %d passes", ErrNonConvergence, last, p.cfg.MaxIterations)
}

// relax runs one synchronous pass over the interior of cur.
func (p *Pipeline) relax(cur *grid.Grid[int], mean, hottest int) (*grid.Grid[int], int) {
	next := cur.Clone()
	interior := cur.Height() - 2
	if interior <= 0 || cur.Width() <= 2 {
		return next, 0
	}

	rows := func(start, end int) int {
		changed := 0
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < cur.Width()-1; x++ {
				heat := cur.Get(x, y)
				if heat == 0 || heat == hottest {
					continue
				}
				n := neighborMean(cur, x, y)
				updated := classify(heat, n, mean).apply(heat, n, mean, hottest)
				if updated != heat {
					next.Set(x, y, updated)
					changed++
				}
			}
		}
		return changed
	}

	if !p.cfg.Parallel {
		return next, rows(0, interior)
	}

	var changed atomic.Int64
	parallel.Line(interior, func(start, end int) {
		changed.Add(int64(rows(start, end)))
	})
	return next, int(changed.Load())
}

// neighborMean is the Moore-neighborhood sum divided by 8, counting cells
// outside the grid as 0.
func neighborMean(g *grid.Grid[int], x, y int) int {
	sum := 0
	for _, d := range grid.Moore {
		sum += g.At(x+d.X, y+d.Y, 0)
	}
	return sum / 8
}

func clearBorder(g *grid.Grid[int]) {
	w, h := g.Width(), g.Height()
	if w == 0 || h == 0 {
		return
	}
	for x := 0; x < w; x++ {
		g.Set(x, 0, 0)
		g.Set(x, h-1, 0)
	}
	for y := 0; y < h; y++ {
		g.Set(0, y, 0)
		g.Set(w-1, y, 0)
	}
}

func countStalled(g *grid.Grid[int], hottest int) int {
	return g.Count(func(v int) bool { return v != 0 && v != hottest })
}

// Threshold marks every cell with non-zero heat as on.
func Threshold(heat *grid.Grid[int]) *grid.Grid[bool] {
	return grid.Map(heat, func(v int) bool { return v != 0 })
}
