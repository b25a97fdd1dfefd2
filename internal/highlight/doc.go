// Package highlight finds regions of interest in a still image.
//
// The pipeline has five stages, each consuming the previous stage's grid:
//
//  1. FindEdges: clamped luminance, two 3x3 kernels, binary edge map.
//  2. BuildHeatMap: edge counts over half-overlapping bricks, averaged into
//     a crisp grid at half-cell pitch and wrapped in a zero border.
//  3. Stabilize: a synchronous cellular automaton that pushes every cell
//     to 0 or the map maximum.
//  4. ExtractObjects: 8-connected flood fill over the non-zero cells.
//  5. Cut: each object's bounding box mapped back to pixels and cropped.
//
// Pipeline.Run chains them. Configuration comes from the config package
// and is fixed per Pipeline.
//
// # Errors
//
// Failures carry the stage and image path in a *StageError. Use errors.Is
// with ErrDecode, ErrInvalidConfig or ErrNonConvergence to classify them.
// An image without edge density is reported through Result.NoActivity
// instead of an error. On non-convergence the partial Result is returned
// alongside the error.
package highlight
