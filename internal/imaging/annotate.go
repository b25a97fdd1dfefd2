package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// AnnotateResult contains the annotated image.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Regions     int    `json:"regions"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Annotate copies img and outlines every rectangle with lineWidth pixels of
// outlineColor. When labels is set, each rectangle gets its index drawn in
// its top-left corner.
func Annotate(img image.Image, rects []image.Rectangle, outlineColor color.RGBA, lineWidth int, labels bool) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	lineWidth = max(lineWidth, 1)
	for i, r := range rects {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}
		for w := 0; w < lineWidth; w++ {
			inner := r.Inset(w)
			if inner.Empty() {
				break
			}
			strokeRect(result, inner, outlineColor)
		}
		if labels {
			drawLabel(result, r.Min.X+lineWidth+1, r.Min.Y+lineWidth+1, strconv.Itoa(i),
				color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}
	return result
}

// AnnotateEncoded runs Annotate and returns the result as base64 PNG. An
// unparsable colorHex falls back to opaque red.
func AnnotateEncoded(img image.Image, rects []image.Rectangle, colorHex string, lineWidth int, labels bool) (*AnnotateResult, error) {
	c, err := parseHexColor(colorHex)
	if err != nil {
		c = color.RGBA{255, 0, 0, 255}
	}

	out := Annotate(img, rects, c, lineWidth, labels)
	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}
	return &AnnotateResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Regions:     len(rects),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	var alpha uint8 = 255
	switch len(hex) {
	case 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// drawLabel writes digits in a 3x5 pixel font over a background box.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	inside := func(px, py int) bool {
		return image.Pt(px, py).In(bounds)
	}

	const charWidth, labelHeight = 4, 7
	for dy := -1; dy < labelHeight-1; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			if inside(x+dx, y+dy) {
				img.SetRGBA(x+dx, y+dy, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' && inside(cx+col, y+row) {
					img.SetRGBA(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
