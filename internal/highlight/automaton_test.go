package highlight

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		heat, n, mean   int
		hottest         int
		wantTransition  transition
		wantUpdatedHeat int
	}{
		{"isolated cell dies", 5, 1, 4, 10, die, 0},
		{"low heat below neighbors still dies", 2, 1, 4, 10, die, 0},
		{"decays toward deficit", 2, 3, 4, 10, decay, 1},
		{"decay floors at zero", 1, 1, 4, 10, decay, 0},
		{"grows toward surplus", 5, 6, 4, 10, grow, 7},
		{"growth capped at max", 9, 8, 4, 10, grow, 10},
		{"neighbors equal to mean leave heat unchanged", 5, 4, 4, 10, grow, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.heat, tt.n, tt.mean)
			if got != tt.wantTransition {
				t.Fatalf("classify(%d, %d, %d) = %v, want %v", tt.heat, tt.n, tt.mean, got, tt.wantTransition)
			}
			if h := got.apply(tt.heat, tt.n, tt.mean, tt.hottest); h != tt.wantUpdatedHeat {
				t.Errorf("apply: got %d, want %d", h, tt.wantUpdatedHeat)
			}
		})
	}
}

func TestTransition_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { transition(7).apply(1, 1, 1, 1) })
	assert.Equal(t, "transition(7)", transition(7).String())
}

func TestStabilize_AllEdgesScenario(t *testing.T) {
	p := newTestPipeline(t, cellSize(2))
	hm, err := p.BuildHeatMap(edgeGrid(4, 4, Edge))
	require.NoError(t, err)

	stable, trace, err := p.Stabilize(hm)
	require.NoError(t, err)

	want := [][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 4, 4, 0, 0},
		{0, 0, 4, 4, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, stable.Rows()); diff != "" {
		t.Errorf("stable grid mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{12, 0}, trace.Changed)
	assert.Equal(t, 2, trace.Passes())
	assert.Equal(t, 0, trace.Stalled)

	// The input heat map is left as it was.
	assert.Equal(t, 1, hm.Grid.Get(1, 1))
}

func TestStabilize_Idempotent(t *testing.T) {
	p := newTestPipeline(t, nil)
	hm := heatMapFromRows(t, [][]int{
		{3, 9, 9, 1},
		{9, 9, 9, 2},
		{1, 9, 4, 0},
	}, 9, 5)

	first, _, err := p.Stabilize(hm)
	require.NoError(t, err)

	second, trace, err := p.Stabilize(&HeatMap{Grid: first, Max: hm.Max, Mean: hm.Mean})
	require.NoError(t, err)
	assert.True(t, grid.Equal(first, second), "second run changed the grid")
	assert.Equal(t, []int{0}, trace.Changed)
}

func TestStabilize_StalledCell(t *testing.T) {
	// The 5 has a single frozen neighbor at 10, so n = 10/8 = 1 = mean and
	// the grow rule adds nothing. The cell stays in between forever.
	p := newTestPipeline(t, nil)
	hm := heatMapFromRows(t, [][]int{{10, 5}}, 10, 1)

	stable, trace, err := p.Stabilize(hm)
	require.NoError(t, err)
	assert.Equal(t, 5, stable.Get(2, 1))
	assert.Equal(t, []int{0}, trace.Changed)
	assert.Equal(t, 1, trace.Stalled)

	// A stalled cell is still on and joins its neighbor.
	objs := ExtractObjects(Threshold(stable))
	require.Len(t, objs, 1)
	assert.Equal(t, 2, objs[0].Len())
}

func TestStabilize_ForcesBorderToZero(t *testing.T) {
	p := newTestPipeline(t, nil)
	g, err := grid.FromRows([][]int{
		{5, 5, 5},
		{5, 8, 5},
		{5, 5, 5},
	})
	require.NoError(t, err)

	stable, _, err := p.Stabilize(&HeatMap{Grid: g, Max: 8, Mean: 2})
	require.NoError(t, err)
	stable.Each(func(x, y, v int) {
		if (x != 1 || y != 1) && v != 0 {
			t.Errorf("border cell (%d,%d) = %d, want 0", x, y, v)
		}
	})
	assert.Equal(t, 8, stable.Get(1, 1))
}

func TestStabilize_Terminates(t *testing.T) {
	p := newTestPipeline(t, nil)

	for seed := 1; seed <= 200; seed++ {
		w, h, top := 4+seed%9, 3+seed%7, 8+seed%50
		gen := lcg(seed)
		rows := make([][]int, h)
		hottest, sum, positive := 1, 0, 0
		for y := range rows {
			rows[y] = make([]int, w)
			for x := range rows[y] {
				v := gen.intn(top + 1)
				rows[y][x] = v
				hottest = max(hottest, v)
				if v > 0 {
					sum += v
					positive++
				}
			}
		}
		hm := heatMapFromRows(t, rows, hottest, sum/positive)

		stable, trace, err := p.Stabilize(hm)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if trace.Passes() > 50 {
			t.Errorf("seed %d: %d passes, expected far fewer", seed, trace.Passes())
		}

		again, _, err := p.Stabilize(&HeatMap{Grid: stable, Max: hm.Max, Mean: hm.Mean})
		require.NoError(t, err)
		if !grid.Equal(stable, again) {
			t.Errorf("seed %d: stabilized grid is not a fixed point", seed)
		}
	}
}

func TestStabilize_CheckerboardSettles(t *testing.T) {
	// Alternating values around the mean are the classic oscillation
	// candidate for synchronous rules.
	p := newTestPipeline(t, nil)

	for _, pair := range [][2]int{{7, 9}, {1, 15}, {8, 8}, {9, 7}} {
		rows := make([][]int, 10)
		for y := range rows {
			rows[y] = make([]int, 10)
			for x := range rows[y] {
				rows[y][x] = pair[(x+y)%2]
			}
		}
		_, trace, err := p.Stabilize(heatMapFromRows(t, rows, 16, 8))
		require.NoError(t, err, "pair %v", pair)
		assert.Equal(t, 6, trace.Passes(), "pair %v", pair)
	}
}

func TestStabilize_NonConvergence(t *testing.T) {
	p := newTestPipeline(t, func(c *config.Config) { c.MaxIterations = 1 })
	edgesP := newTestPipeline(t, cellSize(2))
	hm, err := edgesP.BuildHeatMap(edgeGrid(4, 4, Edge))
	require.NoError(t, err)

	stable, trace, err := p.Stabilize(hm)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonConvergence))
	assert.Equal(t, []int{12}, trace.Changed)
	assert.NotNil(t, stable)
}

func TestStabilize_ParallelMatchesSerial(t *testing.T) {
	serial := newTestPipeline(t, nil)
	par := newTestPipeline(t, func(c *config.Config) { c.Parallel = true })

	gen := lcg(99)
	rows := make([][]int, 40)
	for y := range rows {
		rows[y] = make([]int, 40)
		for x := range rows[y] {
			rows[y][x] = gen.intn(33)
		}
	}
	hm := heatMapFromRows(t, rows, 32, 16)

	a, ta, err := serial.Stabilize(hm)
	require.NoError(t, err)
	b, tb, err := par.Stabilize(hm)
	require.NoError(t, err)

	assert.True(t, grid.Equal(a, b), "parallel result differs from serial")
	assert.Equal(t, ta, tb)
}

func TestStabilize_TinyGrids(t *testing.T) {
	p := newTestPipeline(t, nil)
	for _, size := range [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 1}} {
		g := grid.New[int](size[0], size[1])
		g.Fill(3)
		stable, trace, err := p.Stabilize(&HeatMap{Grid: g, Max: 5, Mean: 2})
		require.NoError(t, err, "size %v", size)
		assert.Equal(t, []int{0}, trace.Changed)
		assert.Equal(t, 0, stable.Count(func(v int) bool { return v != 0 }), "size %v", size)
	}
}

func TestThreshold(t *testing.T) {
	g, err := grid.FromRows([][]int{
		{0, 3, 0},
		{7, 0, 1},
	})
	require.NoError(t, err)

	on := Threshold(g)
	want := [][]bool{
		{false, true, false},
		{true, false, true},
	}
	if diff := cmp.Diff(want, on.Rows()); diff != "" {
		t.Errorf("threshold mismatch (-want +got):\n%s", diff)
	}
}
