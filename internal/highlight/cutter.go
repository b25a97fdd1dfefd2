package highlight

import (
	"image"

	"github.com/ironsheep/image-highlights-mcp/internal/grid"
	"github.com/ironsheep/image-highlights-mcp/internal/imaging"
	"github.com/ironsheep/image-highlights-mcp/internal/logging"
)

// Highlight is one region cut out of the source image.
type Highlight struct {
	// Index is the position of the originating object in the object list.
	Index int `json:"index"`

	// CellMin and CellMax are the object's inclusive bounding box in
	// bordered crisp-grid cells, Reference included.
	CellMin grid.Point `json:"cell_min"`
	CellMax grid.Point `json:"cell_max"`

	// Rect is the cropped pixel rectangle in source image coordinates.
	Rect image.Rectangle `json:"-"`

	// Points is the number of cells in the object.
	Points int `json:"points"`

	Image *image.NRGBA `json:"-"`
}

// PixelRect maps an object's bounding box back onto the source image.
//
// A bordered crisp cell c covers pixels [(c-1)*pitch, c*pitch) along each
// axis, pitch being CellSize/2. One extra cell of padding is added on every
// side and the result is clipped to bounds. ok is false for an empty object
// or one that falls entirely outside bounds.
func (p *Pipeline) PixelRect(obj *VisualObject, bounds image.Rectangle) (image.Rectangle, bool) {
	lo, hi, ok := obj.BoundingBox()
	if !ok {
		return image.Rectangle{}, false
	}
	lo, hi = lo.Add(obj.Reference), hi.Add(obj.Reference)

	pitch := p.cfg.Pitch()
	r := image.Rect(
		(lo.X-2)*pitch, (lo.Y-2)*pitch,
		(hi.X+1)*pitch, (hi.Y+1)*pitch,
	).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}

// Cut crops src once per object. Objects without a bounding box are skipped.
func (p *Pipeline) Cut(objects []*VisualObject, src image.Image) []Highlight {
	bounds := src.Bounds()
	highlights := make([]Highlight, 0, len(objects))
	for i, obj := range objects {
		r, ok := p.PixelRect(obj, bounds)
		if !ok {
			continue
		}
		crop, err := imaging.CropRegion(src, r)
		if err != nil {
			logging.Logf("highlight: skipping object %d: %v", i, err)
			continue
		}
		lo, hi, _ := obj.BoundingBox()
		highlights = append(highlights, Highlight{
			Index:   i,
			CellMin: lo.Add(obj.Reference),
			CellMax: hi.Add(obj.Reference),
			Rect:    r,
			Points:  obj.Len(),
			Image:   crop,
		})
	}
	return highlights
}
