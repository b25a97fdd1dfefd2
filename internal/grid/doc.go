// Package grid provides the integer Point type and a generic, flat 2D Grid
// shared by every stage of the highlight pipeline.
//
// A Grid stores its cells in one row-major slice. Reads that may fall off the
// edge go through At, which takes the value to return outside the grid:
//
//	heat := g.At(x-1, y-1, 0) // 0 beyond the border
//
// Get and Set panic on out-of-range indices, like slice indexing does.
package grid
