package highlight

import (
	"fmt"

	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// VisualObject is one connected group of on cells.
//
// Points are kept in insertion order and are relative to Reference, the
// cell offset of the grid the object was extracted from within the full
// image. The bounding box is computed on demand and cached until the next
// Add.
type VisualObject struct {
	Reference grid.Point

	points  []grid.Point
	members map[grid.Point]struct{}

	boxValid bool
	lo, hi   grid.Point
}

// NewVisualObject returns an empty object anchored at ref.
func NewVisualObject(ref grid.Point) *VisualObject {
	return &VisualObject{
		Reference: ref,
		members:   make(map[grid.Point]struct{}),
	}
}

// Add inserts p and reports whether it was new. Adding a point that is
// already a member is a no-op.
func (o *VisualObject) Add(p grid.Point) bool {
	if o.members == nil {
		o.members = make(map[grid.Point]struct{})
	}
	if _, ok := o.members[p]; ok {
		return false
	}
	o.members[p] = struct{}{}
	o.points = append(o.points, p)
	o.boxValid = false
	return true
}

// Contains reports whether p is a member.
func (o *VisualObject) Contains(p grid.Point) bool {
	_, ok := o.members[p]
	return ok
}

// Len returns the number of member points.
func (o *VisualObject) Len() int {
	return len(o.points)
}

// Points returns a copy of the members in insertion order.
func (o *VisualObject) Points() []grid.Point {
	return append([]grid.Point(nil), o.points...)
}

// BoundingBox returns the inclusive corners of the smallest rectangle holding
// every member. ok is false for an empty object.
func (o *VisualObject) BoundingBox() (lo, hi grid.Point, ok bool) {
	if len(o.points) == 0 {
		return grid.Point{}, grid.Point{}, false
	}
	if !o.boxValid {
		o.lo, o.hi = o.points[0], o.points[0]
		for _, p := range o.points[1:] {
			o.lo = o.lo.Min(p)
			o.hi = o.hi.Max(p)
		}
		o.boxValid = true
	}
	return o.lo, o.hi, true
}

// PointGrid rasterizes the object into a grid the size of its bounding box,
// with member cells set. Cell (0, 0) corresponds to the box's low corner.
// An empty object yields a 0x0 grid.
func (o *VisualObject) PointGrid() *grid.Grid[bool] {
	lo, hi, ok := o.BoundingBox()
	if !ok {
		return grid.New[bool](0, 0)
	}
	g := grid.New[bool](hi.X-lo.X+1, hi.Y-lo.Y+1)
	for _, p := range o.points {
		g.Set(p.X-lo.X, p.Y-lo.Y, true)
	}
	return g
}

func (o *VisualObject) String() string {
	lo, hi, ok := o.BoundingBox()
	if !ok {
		return fmt.Sprintf("VisualObject{ref=%v empty}", o.Reference)
	}
	return fmt.Sprintf("VisualObject{ref=%v points=%d box=%v-%v}", o.Reference, len(o.points), lo, hi)
}
