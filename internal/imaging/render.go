package imaging

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// heatStops is the cold-to-hot palette used by RenderHeat. Colors between
// stops are blended in Lab space so brightness ramps evenly.
var heatStops = []colorful.Color{
	{R: 0.00, G: 0.00, B: 0.00},
	{R: 0.10, G: 0.10, B: 0.45},
	{R: 0.75, G: 0.10, B: 0.20},
	{R: 1.00, G: 0.65, B: 0.00},
	{R: 1.00, G: 1.00, B: 0.85},
}

// HeatColor maps t in [0, 1] onto the heat palette. Values outside the
// range are clamped.
func HeatColor(t float64) color.RGBA {
	t = min(max(t, 0), 1)
	segments := len(heatStops) - 1
	pos := t * float64(segments)
	i := min(int(pos), segments-1)
	c := heatStops[i].BlendLab(heatStops[i+1], pos-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RenderEdges draws an edge map as a grayscale image, edge samples black and
// background white.
func RenderEdges(edges *grid.Grid[uint8]) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, edges.Width(), edges.Height()))
	for y := 0; y < edges.Height(); y++ {
		copy(img.Pix[y*img.Stride:], edges.Row(y))
	}
	return img
}

// RenderHeat paints every cell of a heat grid as a scale x scale block whose
// color runs from black at 0 to pale yellow at hottest.
func RenderHeat(heat *grid.Grid[int], hottest, scale int) *image.RGBA {
	scale = max(scale, 1)
	hottest = max(hottest, 1)
	img := image.NewRGBA(image.Rect(0, 0, heat.Width()*scale, heat.Height()*scale))
	heat.Each(func(x, y int, v int) {
		fillBlock(img, x*scale, y*scale, scale, HeatColor(float64(v)/float64(hottest)))
	})
	return img
}

// RenderPoints paints on cells white and off cells black, scale pixels per
// cell.
func RenderPoints(points *grid.Grid[bool], scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, points.Width()*scale, points.Height()*scale))
	on := color.RGBA{255, 255, 255, 255}
	off := color.RGBA{0, 0, 0, 255}
	points.Each(func(x, y int, v bool) {
		c := off
		if v {
			c = on
		}
		fillBlock(img, x*scale, y*scale, scale, c)
	})
	return img
}

func fillBlock(img *image.RGBA, x0, y0, size int, c color.RGBA) {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
