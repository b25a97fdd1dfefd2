package grid

import "fmt"

// Point is an integer coordinate, either a pixel or a cell depending on the
// grid it indexes.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{X: min(p.X, q.X), Y: min(p.Y, q.Y)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{X: max(p.X, q.X), Y: max(p.Y, q.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Moore lists the offsets of the eight cells surrounding a cell, row by row.
var Moore = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors returns the Moore neighborhood of p. Points may fall outside any
// particular grid; use Grid.At or Grid.In to filter them.
func (p Point) Neighbors() [8]Point {
	var out [8]Point
	for i, d := range Moore {
		out[i] = p.Add(d)
	}
	return out
}

// Grid is a dense row-major 2D array stored in a single slice.
//
// The zero value is an empty 0x0 grid. Grids are not safe for concurrent
// mutation; concurrent reads are fine.
type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

// New allocates a width x height grid filled with the zero value of T.
// Negative dimensions are treated as zero.
func New[T any](width, height int) *Grid[T] {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}
}

// FromRows builds a grid from a slice of rows. All rows must have the
// same length as the first one.
func FromRows[T any](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 {
		return New[T](0, 0), nil
	}
	g := New[T](len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), g.width)
		}
		copy(g.cells[y*g.width:], row)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.cells) }

// In reports whether (x, y) addresses a cell of g.
func (g *Grid[T]) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the cell at (x, y), or def when (x, y) lies outside the grid.
// Negative and overflowing indices both yield def.
func (g *Grid[T]) At(x, y int, def T) T {
	if !g.In(x, y) {
		return def
	}
	return g.cells[y*g.width+x]
}

// Get returns the cell at (x, y). It panics if (x, y) is out of range.
func (g *Grid[T]) Get(x, y int) T {
	g.check(x, y)
	return g.cells[y*g.width+x]
}

// Set stores v at (x, y). It panics if (x, y) is out of range.
func (g *Grid[T]) Set(x, y int, v T) {
	g.check(x, y)
	g.cells[y*g.width+x] = v
}

// Row returns the backing slice for row y. Writes through the slice
// modify the grid.
func (g *Grid[T]) Row(y int) []T {
	g.check(0, y)
	return g.cells[y*g.width : (y+1)*g.width]
}

// Cells exposes the backing slice in row-major order.
func (g *Grid[T]) Cells() []T { return g.cells }

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Clone returns a deep copy of g.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{width: g.width, height: g.height, cells: make([]T, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Pad returns a new grid with n extra cells on every side, filled with v.
// The original content sits at offset (n, n).
func (g *Grid[T]) Pad(n int, v T) *Grid[T] {
	out := New[T](g.width+2*n, g.height+2*n)
	out.Fill(v)
	for y := 0; y < g.height; y++ {
		copy(out.cells[(y+n)*out.width+n:], g.cells[y*g.width:(y+1)*g.width])
	}
	return out
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(x, y int, v T)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, g.cells[y*g.width+x])
		}
	}
}

// Count returns the number of cells for which keep returns true.
func (g *Grid[T]) Count(keep func(T) bool) int {
	n := 0
	for _, v := range g.cells {
		if keep(v) {
			n++
		}
	}
	return n
}

func (g *Grid[T]) check(x, y int) {
	if !g.In(x, y) {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", x, y, g.width, g.height))
	}
}

// Map returns a grid of the same shape with fn applied to every cell.
func Map[T, U any](g *Grid[T], fn func(T) U) *Grid[U] {
	out := New[U](g.width, g.height)
	for i, v := range g.cells {
		out.cells[i] = fn(v)
	}
	return out
}

// Equal reports whether a and b have the same shape and contents.
func Equal[T comparable](a, b *Grid[T]) bool {
	if a.width != b.width || a.height != b.height {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}

// Rows copies the grid into a slice of rows. Mostly useful for test
// diagnostics and serialization.
func (g *Grid[T]) Rows() [][]T {
	rows := make([][]T, g.height)
	for y := range rows {
		rows[y] = append([]T(nil), g.cells[y*g.width:(y+1)*g.width]...)
	}
	return rows
}
