package report

import (
	"fmt"
	"path/filepath"

	"github.com/ironsheep/image-highlights-mcp/internal/highlight"
	"github.com/ironsheep/image-highlights-mcp/internal/imaging"
)

// HighlightFile is the name under which the i-th highlight is saved.
func HighlightFile(i int) string {
	return fmt.Sprintf("highlight_%03d.png", i)
}

// SaveHighlights writes every highlight image into dir as PNG and returns
// the paths in order. Highlights without an image are skipped.
func SaveHighlights(dir string, highlights []highlight.Highlight) ([]string, error) {
	paths := make([]string, 0, len(highlights))
	for i, h := range highlights {
		if h.Image == nil {
			continue
		}
		path := filepath.Join(dir, HighlightFile(i))
		if err := imaging.Save(h.Image, path); err != nil {
			return paths, fmt.Errorf("highlight %d: %w", h.Index, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
