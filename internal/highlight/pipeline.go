package highlight

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/grid"
	"github.com/ironsheep/image-highlights-mcp/internal/imaging"
	"github.com/ironsheep/image-highlights-mcp/internal/logging"
)

// Pipeline runs the highlight stages with a fixed configuration. It holds
// no per-image state and is safe for concurrent use.
type Pipeline struct {
	cfg config.Config
}

// New validates cfg and returns a pipeline using it.
func New(cfg config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

// Result is everything one pipeline run produced.
type Result struct {
	Path   string
	Width  int
	Height int
	Config config.Config

	Edges      *grid.Grid[uint8]
	EdgePixels int
	Heat       *HeatMap
	Stable     *grid.Grid[int]
	Trace      Trace

	Objects    []*VisualObject
	Highlights []Highlight

	// NoActivity is set when the image had no edge density at all. The
	// object and highlight lists are then empty.
	NoActivity bool
}

// Run processes an in-memory image.
func (p *Pipeline) Run(img image.Image) (*Result, error) {
	return p.Process("", img)
}

// RunFile decodes the image at path and processes it.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	img, err := imaging.Decode(path)
	if err != nil {
		return nil, &StageError{Stage: StageDecode, Path: path, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return p.Process(path, img)
}

// Process runs every stage on img. path only labels logs and errors and may
// be empty.
//
// An image without any edge density is not an error: the result comes back
// with NoActivity set. Dimension mismatches and non-convergence are reported
// as *StageError.
func (p *Pipeline) Process(path string, img image.Image) (*Result, error) {
	b := img.Bounds()
	res := &Result{Path: path, Width: b.Dx(), Height: b.Dy(), Config: p.cfg}

	if err := p.cfg.CheckDimensions(res.Width, res.Height); err != nil {
		return nil, &StageError{Stage: StageHeatMap, Path: path, Err: err}
	}

	res.Edges = p.FindEdges(img)
	res.EdgePixels = CountEdges(res.Edges)
	logging.Debugf("%s %q: %dx%d, %d edge pixels", StageEdges, path, res.Width, res.Height, res.EdgePixels)

	hm, err := p.BuildHeatMap(res.Edges)
	res.Heat = hm
	if errors.Is(err, ErrNoActivity) {
		logging.Debugf("%s %q: no positive cells", StageHeatMap, path)
		res.NoActivity = true
		return res, nil
	}
	if err != nil {
		return nil, &StageError{Stage: StageHeatMap, Path: path, Err: err}
	}
	logging.Debugf("%s %q: %dx%d cells, max=%d mean=%d positive=%d",
		StageHeatMap, path, hm.Grid.Width(), hm.Grid.Height(), hm.Max, hm.Mean, hm.Positive)

	stable, trace, err := p.Stabilize(hm)
	res.Stable, res.Trace = stable, trace
	if err != nil {
		return res, &StageError{Stage: StageAutomaton, Path: path, Err: err}
	}
	logging.Debugf("%s %q: %d passes, %d stalled", StageAutomaton, path, trace.Passes(), trace.Stalled)

	res.Objects = ExtractObjects(Threshold(stable))
	logging.Debugf("%s %q: %d objects", StageExtract, path, len(res.Objects))

	res.Highlights = p.Cut(res.Objects, img)
	logging.Debugf("%s %q: %d highlights", StageCut, path, len(res.Highlights))

	return res, nil
}
