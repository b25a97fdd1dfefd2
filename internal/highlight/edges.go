package highlight

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/image-highlights-mcp/internal/grid"
)

// Edge map sample values.
const (
	Edge       uint8 = 0
	Background uint8 = 255
)

// FindEdges turns img into a binary edge map of the same size. Every sample
// is either Edge or Background.
//
// Luminance is clamped to [Dark, Bright] and correlated with a horizontal
// and a vertical 3x3 kernel whose outer weight is EdgeCoef, each divided by
// its weight sum. Borders replicate the nearest pixel. A pixel is an edge
// when either response saturates at 0 or 255. Flat regions respond with
// their clamped luminance, which never reaches either extreme.
func (p *Pipeline) FindEdges(img image.Image) *grid.Grid[uint8] {
	lum := p.clampedLuminance(img)
	opts := &convolution.Options{Bias: 0.5, KeepAlpha: true}
	horiz := convolution.Convolve(lum, horizontalKernel(p.cfg.EdgeCoef), opts)
	vert := convolution.Convolve(lum, verticalKernel(p.cfg.EdgeCoef), opts)

	w, h := lum.Rect.Dx(), lum.Rect.Dy()
	edges := grid.New[uint8](w, h)
	for y := 0; y < h; y++ {
		row := edges.Row(y)
		for x := 0; x < w; x++ {
			i := y*horiz.Stride + x*4
			a, b := horiz.Pix[i], vert.Pix[y*vert.Stride+x*4]
			lo, hi := min(a, b), max(a, b)
			if hi == 255 || lo == 0 {
				row[x] = Edge
			} else {
				row[x] = Background
			}
		}
	}
	return edges
}

// clampedLuminance returns a gray RGBA copy of img anchored at (0,0), with
// every sample pulled into [Dark, Bright].
func (p *Pipeline) clampedLuminance(img image.Image) *image.RGBA {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	dark, bright := uint8(p.cfg.Dark), uint8(p.cfg.Bright)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := gray.Pix[y*gray.Stride+x*4]
			v = min(max(v, dark), bright)
			i := y*out.Stride + x*4
			out.Pix[i+0] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

func horizontalKernel(e float64) *convolution.Kernel {
	return normalized(3, 3, []float64{
		e, e, e,
		1, 1, 1,
		-e, -e, -e,
	})
}

func verticalKernel(e float64) *convolution.Kernel {
	return normalized(3, 3, []float64{
		e, 1, -e,
		e, 1, -e,
		e, 1, -e,
	})
}

// normalized divides every weight by the signed sum of the weights, so a
// flat region responds with its own luminance. A zero sum leaves the
// weights as they are. Kernel.Normalized divides by the absolute sum
// instead, which would flatten every response toward zero.
func normalized(width, height int, weights []float64) *convolution.Kernel {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		sum = 1
	}

	k := convolution.NewKernel(width, height)
	for i, w := range weights {
		k.Matrix[i] = w / sum
	}
	return k
}

// CountEdges returns the number of Edge samples in an edge map.
func CountEdges(edges *grid.Grid[uint8]) int {
	return edges.Count(func(v uint8) bool { return v == Edge })
}
