package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CropResult is an encoded image returned to MCP clients.
type CropResult struct {
	X1          int    `json:"x1"`
	Y1          int    `json:"y1"`
	X2          int    `json:"x2"`
	Y2          int    `json:"y2"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	File        string `json:"file,omitempty"`
}

// CropRegion copies the part of img inside r. r is clipped to the image
// bounds first; an empty intersection is an error. The result is anchored
// at (0,0).
func CropRegion(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	clipped := r.Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	return imaging.Crop(img, clipped), nil
}

// Crop crops img to r, optionally rescales it, and encodes it as base64 PNG.
// A scale of 0 or 1 keeps the original size.
func Crop(img image.Image, r image.Rectangle, scale float64) (*CropResult, error) {
	cropped, err := CropRegion(img, r)
	if err != nil {
		return nil, err
	}

	var out image.Image = cropped
	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		out = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}

	clipped := r.Intersect(img.Bounds())
	return &CropResult{
		X1:          clipped.Min.X,
		Y1:          clipped.Min.Y,
		X2:          clipped.Max.X,
		Y2:          clipped.Max.Y,
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// EncodePNGBase64 encodes img as PNG and returns it base64 encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Save writes img to path, creating parent directories as needed. The
// format follows the file extension.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
