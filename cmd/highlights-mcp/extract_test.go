package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/highlight"
	"github.com/ironsheep/image-highlights-mcp/internal/imaging"
	"github.com/ironsheep/image-highlights-mcp/internal/report"
)

func writeSquareImage(t *testing.T, dir, name string, size int, square image.Rectangle) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(20)
			if image.Pt(x, y).In(square) {
				v = 200
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestParseExtractArgs(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseExtractArgs([]string{"-out", "o", "-workers", "0", "-plot", "a.png", "b.png"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "o", opts.outDir)
	assert.Equal(t, 1, opts.workers)
	assert.True(t, opts.plot)
	assert.Equal(t, []string{"a.png", "b.png"}, opts.images)

	_, err = parseExtractArgs(nil, &stderr)
	assert.Error(t, err)

	_, err = parseExtractArgs([]string{"-bogus"}, &stderr)
	assert.Error(t, err)
}

func TestUniqueStems(t *testing.T) {
	got := uniqueStems([]string{"a/x.png", "b/x.jpg", "x-2.png", "c/y.tiff"})
	assert.Equal(t, []string{"x", "x-2", "x-2-2", "y"}, got)
}

func TestRunExtract(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	square := writeSquareImage(t, in, "square.png", 64, image.Rect(16, 16, 32, 32))
	quiet := writeSquareImage(t, in, "quiet.png", 32, image.Rectangle{})

	var stdout bytes.Buffer
	opts := &extractOptions{outDir: out, workers: 2, plot: true, images: []string{square, quiet}}
	runDir, err := runExtract(opts, &stdout)
	require.NoError(t, err)
	assert.Equal(t, out, filepath.Dir(runDir))

	m, err := report.ReadManifest(filepath.Join(runDir, "square", "manifest.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(runDir), m.RunID)
	assert.Equal(t, square, m.Source)
	require.Len(t, m.Objects, 1)
	assert.Equal(t, "highlight_000.png", m.Objects[0].File)

	crop, err := imaging.Decode(filepath.Join(runDir, "square", "highlight_000.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(32, 32), crop.Bounds().Size())

	_, err = os.Stat(filepath.Join(runDir, "square", "convergence.png"))
	assert.NoError(t, err)

	q, err := report.ReadManifest(filepath.Join(runDir, "quiet", "manifest.yaml"))
	require.NoError(t, err)
	assert.True(t, q.NoActivity)
	assert.Empty(t, q.Objects)

	assert.Contains(t, stdout.String(), "square.png: 1 highlights in 4 passes")
	assert.Contains(t, stdout.String(), "quiet.png: no activity")
}

func TestRunExtract_PartialFailure(t *testing.T) {
	in := t.TempDir()
	good := writeSquareImage(t, in, "good.png", 64, image.Rect(16, 16, 32, 32))
	missing := filepath.Join(in, "missing.png")
	odd := writeSquareImage(t, in, "odd.png", 60, image.Rect(16, 16, 32, 32))

	var stdout bytes.Buffer
	opts := &extractOptions{outDir: t.TempDir(), workers: 1, images: []string{missing, good, odd}}
	runDir, err := runExtract(opts, &stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.png")
	assert.Contains(t, err.Error(), "odd.png")
	assert.ErrorIs(t, err, highlight.ErrDecode)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, stdout.String(), "good.png: 1 highlights")

	_, statErr := os.Stat(filepath.Join(runDir, "good", "manifest.yaml"))
	assert.NoError(t, statErr, "good image is still processed")
	_, statErr = os.Stat(filepath.Join(runDir, "missing"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunExtract_AllSucceed(t *testing.T) {
	in := t.TempDir()
	a := writeSquareImage(t, in, "a.png", 64, image.Rect(16, 16, 32, 32))
	b := writeSquareImage(t, in, "b.png", 64, image.Rect(32, 32, 48, 48))

	var stdout bytes.Buffer
	runDir, err := runExtract(&extractOptions{outDir: t.TempDir(), workers: 2, images: []string{a, b}}, &stdout)
	require.NoError(t, err)
	assert.NotEmpty(t, runDir)
	assert.Equal(t, 2, strings.Count(stdout.String(), "1 highlights in 4 passes"))
}

func TestRunExtract_ConfigFile(t *testing.T) {
	in := t.TempDir()
	img := writeSquareImage(t, in, "square.png", 64, image.Rect(16, 16, 32, 32))

	cfgPath := filepath.Join(in, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cell_size: 16\n"), 0644))

	runDir, err := runExtract(&extractOptions{configPath: cfgPath, outDir: t.TempDir(), workers: 1, images: []string{img}}, &bytes.Buffer{})
	require.NoError(t, err)

	m, err := report.ReadManifest(filepath.Join(runDir, "square", "manifest.yaml"))
	require.NoError(t, err)
	want := config.Default()
	want.CellSize = 16
	assert.Equal(t, want, m.Config)
}

func TestRunExtract_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cell_size: 3\n"), 0644))

	runDir, err := runExtract(&extractOptions{configPath: cfgPath, outDir: t.TempDir(), workers: 1, images: []string{"x.png"}}, &bytes.Buffer{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Empty(t, runDir)
}

func TestExtractMain_ExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, extractMain(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "no images")

	stderr.Reset()
	missing := filepath.Join(t.TempDir(), "missing.png")
	assert.Equal(t, 1, extractMain([]string{"-out", t.TempDir(), missing}, &stdout, &stderr))
	assert.True(t, strings.Contains(stderr.String(), "decode"))
}
