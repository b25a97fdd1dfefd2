package highlight

import (
	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// ExtractObjects labels the 8-connected groups of on cells in points.
// It is ExtractObjectsAt with a zero reference.
func ExtractObjects(points *grid.Grid[bool]) []*VisualObject {
	return ExtractObjectsAt(points, grid.Point{})
}

// ExtractObjectsAt scans points row by row and flood fills every on cell it
// has not yet claimed. Each on cell ends up in exactly one object. Objects
// are returned in the order their first cell is met and carry ref as their
// Reference. The input grid is left untouched.
func ExtractObjectsAt(points *grid.Grid[bool], ref grid.Point) []*VisualObject {
	remaining := points.Clone()
	var objects []*VisualObject
	var stack []grid.Point

	for y := 0; y < remaining.Height(); y++ {
		for x := 0; x < remaining.Width(); x++ {
			if !remaining.Get(x, y) {
				continue
			}

			obj := NewVisualObject(ref)
			remaining.Set(x, y, false)
			stack = append(stack[:0], grid.Pt(x, y))

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				obj.Add(p)

				for _, n := range p.Neighbors() {
					if remaining.At(n.X, n.Y, false) {
						remaining.Set(n.X, n.Y, false)
						stack = append(stack, n)
					}
				}
			}

			objects = append(objects, obj)
		}
	}
	return objects
}
