package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/highlight"
	"github.com/ironsheep/image-highlights-mcp/internal/logging"
	"github.com/ironsheep/image-highlights-mcp/internal/report"
)

type extractOptions struct {
	configPath string
	outDir     string
	workers    int
	plot       bool
	images     []string
}

func parseExtractArgs(args []string, stderr io.Writer) (*extractOptions, error) {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &extractOptions{}
	fs.StringVar(&opts.configPath, "config", "", "YAML pipeline configuration")
	fs.StringVar(&opts.outDir, "out", "highlights", "output directory")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "images processed at once")
	fs.BoolVar(&opts.plot, "plot", false, "write convergence.png per image")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.images = fs.Args()
	if len(opts.images) == 0 {
		return nil, errors.New("extract: no images given")
	}
	if opts.workers < 1 {
		opts.workers = 1
	}
	return opts, nil
}

func extractMain(args []string, stdout, stderr io.Writer) int {
	opts, err := parseExtractArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}

	runDir, err := runExtract(opts, stdout)
	if runDir != "" {
		fmt.Fprintf(stdout, "run: %s\n", runDir)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// runExtract processes every image under a fresh run directory and returns
// its path. A failing image does not stop the others; all failures are
// joined into the returned error.
func runExtract(opts *extractOptions, stdout io.Writer) (string, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return "", err
		}
	}
	p, err := highlight.New(cfg)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	runDir := filepath.Join(opts.outDir, runID)
	stems := uniqueStems(opts.images)
	errs := make([]error, len(opts.images))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(opts.workers)

	// Workers never cancel each other; Wait only reports that something
	// failed, errs keeps every failure.
	for i, path := range opts.images {
		i, path := i, path
		g.Go(func() error {
			summary, err := extractOne(p, runID, path, filepath.Join(runDir, stems[i]), opts.plot)
			if summary != "" {
				mu.Lock()
				fmt.Fprintln(stdout, summary)
				mu.Unlock()
			}
			errs[i] = err
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return runDir, errors.Join(errs...)
	}
	return runDir, nil
}

// extractOne runs the pipeline on one image and writes its crops, manifest
// and optional plot into dir. A run that did not converge still gets its
// manifest so the trace can be inspected.
func extractOne(p *highlight.Pipeline, runID, path, dir string, plot bool) (string, error) {
	res, runErr := p.RunFile(path)
	if res == nil {
		return "", runErr
	}

	paths, err := report.SaveHighlights(dir, res.Highlights)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	m := report.Build(runID, res)
	m.SetFiles(paths)
	if err := m.WriteYAML(filepath.Join(dir, "manifest.yaml")); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if plot && res.Trace.Passes() > 0 {
		if err := report.PlotConvergence(res.Trace, filepath.Join(dir, "convergence.png")); err != nil {
			logging.Logf("%s: %v", path, err)
		}
	}

	if runErr != nil {
		return "", runErr
	}
	if res.NoActivity {
		return fmt.Sprintf("%s: no activity", path), nil
	}
	return fmt.Sprintf("%s: %d highlights in %d passes", path, len(res.Highlights), res.Trace.Passes()), nil
}

// uniqueStems names each image's output directory after its file name
// without extension, suffixing repeats with -2, -3 and so on.
func uniqueStems(paths []string) []string {
	used := make(map[string]bool, len(paths))
	stems := make([]string, len(paths))
	for i, path := range paths {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		stem := base
		for n := 2; used[stem]; n++ {
			stem = fmt.Sprintf("%s-%d", base, n)
		}
		used[stem] = true
		stems[i] = stem
	}
	return stems
}
