package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/grid"
	"github.com/ironsheep/image-highlights-mcp/internal/highlight"
)

// Manifest summarizes one pipeline run over one image.
type Manifest struct {
	RunID     string        `yaml:"run_id" json:"run_id"`
	Generated time.Time     `yaml:"generated" json:"generated"`
	Source    string        `yaml:"source" json:"source"`
	Width     int           `yaml:"width" json:"width"`
	Height    int           `yaml:"height" json:"height"`
	Config    config.Config `yaml:"config" json:"config"`

	EdgePixels int  `yaml:"edge_pixels" json:"edge_pixels"`
	NoActivity bool `yaml:"no_activity,omitempty" json:"no_activity,omitempty"`

	Heat      HeatSummary     `yaml:"heat" json:"heat"`
	Automaton highlight.Trace `yaml:"automaton" json:"automaton"`

	Objects []ObjectSummary `yaml:"objects" json:"objects"`
	Area    AreaStats       `yaml:"area" json:"area"`
}

// HeatSummary holds the crisp heat map statistics.
type HeatSummary struct {
	Max      int `yaml:"max" json:"max"`
	Mean     int `yaml:"mean" json:"mean"`
	Positive int `yaml:"positive" json:"positive"`
}

// ObjectSummary describes one cut highlight.
type ObjectSummary struct {
	Index   int        `yaml:"index" json:"index"`
	Points  int        `yaml:"points" json:"points"`
	CellMin grid.Point `yaml:"cell_min" json:"cell_min"`
	CellMax grid.Point `yaml:"cell_max" json:"cell_max"`
	X1      int        `yaml:"x1" json:"x1"`
	Y1      int        `yaml:"y1" json:"y1"`
	X2      int        `yaml:"x2" json:"x2"`
	Y2      int        `yaml:"y2" json:"y2"`
	File    string     `yaml:"file,omitempty" json:"file,omitempty"`
}

// AreaStats describes the distribution of object sizes in cells.
type AreaStats struct {
	Count  int     `yaml:"count" json:"count"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
	Median float64 `yaml:"median" json:"median"`
}

// Build summarizes res. A nil result yields a manifest carrying only the
// run ID.
func Build(runID string, res *highlight.Result) *Manifest {
	m := &Manifest{
		RunID:     runID,
		Generated: time.Now().UTC(),
		Objects:   []ObjectSummary{},
	}
	if res == nil {
		return m
	}

	m.Source = res.Path
	m.Width, m.Height = res.Width, res.Height
	m.Config = res.Config
	m.EdgePixels = res.EdgePixels
	m.NoActivity = res.NoActivity
	m.Automaton = res.Trace
	if res.Heat != nil {
		m.Heat = HeatSummary{Max: res.Heat.Max, Mean: res.Heat.Mean, Positive: res.Heat.Positive}
	}

	for _, h := range res.Highlights {
		m.Objects = append(m.Objects, ObjectSummary{
			Index:   h.Index,
			Points:  h.Points,
			CellMin: h.CellMin,
			CellMax: h.CellMax,
			X1:      h.Rect.Min.X,
			Y1:      h.Rect.Min.Y,
			X2:      h.Rect.Max.X,
			Y2:      h.Rect.Max.Y,
		})
	}

	areas := make([]float64, len(res.Objects))
	for i, obj := range res.Objects {
		areas[i] = float64(obj.Len())
	}
	m.Area = computeAreaStats(areas)
	return m
}

// SetFiles records the file written for each object, in order. Extra names
// are ignored.
func (m *Manifest) SetFiles(paths []string) {
	for i := range m.Objects {
		if i >= len(paths) {
			return
		}
		m.Objects[i].File = filepath.Base(paths[i])
	}
}

// WriteYAML writes the manifest to path, creating parent directories.
func (m *Manifest) WriteYAML(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteYAML.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// computeAreaStats uses the sample standard deviation and the empirical
// median (the lower middle value for an even count).
func computeAreaStats(areas []float64) AreaStats {
	if len(areas) == 0 {
		return AreaStats{}
	}
	sorted := append([]float64(nil), areas...)
	sort.Float64s(sorted)

	s := AreaStats{
		Count:  len(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) == 1 {
		s.Mean = sorted[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	return s
}
