package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/image-highlights-mcp/internal/highlight"
)

// ErrEmptyTrace is returned when there is nothing to plot.
var ErrEmptyTrace = errors.New("empty automaton trace")

// PlotConvergence draws the number of cells changed in each automaton pass
// and saves it to path. The image format follows the extension.
func PlotConvergence(trace highlight.Trace, path string) error {
	if trace.Passes() == 0 {
		return ErrEmptyTrace
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Automaton convergence (%d passes, %d stalled)", trace.Passes(), trace.Stalled)
	p.X.Label.Text = "Pass"
	p.Y.Label.Text = "Changed cells"
	p.Y.Min = 0

	pts := make(plotter.XYs, 0, len(trace.Changed))
	for i, n := range trace.Changed {
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: float64(n)})
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	line.Width = vg.Points(1)
	points.Color = line.Color
	p.Add(line, points, plotter.NewGrid())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save convergence plot: %w", err)
	}
	return nil
}
