package highlight

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
)

// Stage names used in StageError and in debug logs.
const (
	StageDecode    = "decode"
	StageEdges     = "edges"
	StageHeatMap   = "heat map"
	StageAutomaton = "automaton"
	StageExtract   = "extract"
	StageCut       = "cut"
)

var (
	// ErrDecode means the source image could not be opened or parsed.
	ErrDecode = errors.New("image decode failed")

	// ErrInvalidConfig is config.ErrInvalidConfig, re-exported so callers of
	// this package need only one import for errors.Is checks.
	ErrInvalidConfig = config.ErrInvalidConfig

	// ErrNoActivity means the heat map had no positive cell, so there is
	// nothing to extract and heat_mean is undefined.
	ErrNoActivity = errors.New("no activity detected")

	// ErrNonConvergence means the automaton was still changing cells when it
	// hit the iteration cap.
	ErrNonConvergence = errors.New("automaton did not converge")
)

// StageError records which pipeline stage failed and for which image.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
