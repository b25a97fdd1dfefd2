package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/highlight"
	"github.com/ironsheep/image-highlights-mcp/internal/imaging"
	"github.com/ironsheep/image-highlights-mcp/internal/report"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "highlights_cut").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return s.resultResponse(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Layers the pipeline arguments over the server's base configuration
//  3. Loads the image from cache
//  4. Runs the pipeline as far as the tool needs
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Pipeline stages
	case "highlights_find_edges":
		return s.handleFindEdges(args)
	case "highlights_heat_map":
		return s.handleHeatMap(args)
	case "highlights_extract":
		return s.handleExtract(args)

	// Output
	case "highlights_cut":
		return s.handleCut(args)
	case "highlights_annotate":
		return s.handleAnnotate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// pipelineArgs are accepted by every highlights_* tool. A field left out of
// the call keeps the server's base configuration; an explicit value, zero
// included, replaces it and is validated with the rest.
type pipelineArgs struct {
	Path          string   `json:"path"`
	CellSize      *int     `json:"cell_size"`
	Dark          *int     `json:"dark"`
	Bright        *int     `json:"bright"`
	EdgeCoef      *float64 `json:"edge_coef"`
	MaxIterations *int     `json:"max_iterations"`
	Parallel      *bool    `json:"parallel"`
}

func (a pipelineArgs) config(base config.Config) config.Config {
	cfg := base
	override(&cfg.CellSize, a.CellSize)
	override(&cfg.Dark, a.Dark)
	override(&cfg.Bright, a.Bright)
	override(&cfg.EdgeCoef, a.EdgeCoef)
	override(&cfg.MaxIterations, a.MaxIterations)
	override(&cfg.Parallel, a.Parallel)
	return cfg
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// load builds a pipeline for a and fetches the image it names.
func (s *Server) load(a pipelineArgs) (*highlight.Pipeline, image.Image, error) {
	p, err := highlight.New(a.config(s.base))
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	return p, img, nil
}

// run executes the whole pipeline. Non-convergence is an error here even
// though the pipeline returns a partial result with it.
func (s *Server) run(a pipelineArgs) (*highlight.Result, image.Image, error) {
	p, img, err := s.load(a)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Process(a.Path, img)
	if err != nil {
		return nil, nil, err
	}
	return res, img, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Pipeline Stage Handlers ===

// EdgesResult describes the binary edge map of an image.
type EdgesResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	EdgePixels  int     `json:"edge_pixels"`
	EdgeRatio   float64 `json:"edge_ratio"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

func (s *Server) handleFindEdges(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, img, err := s.load(a)
	if err != nil {
		return nil, err
	}

	edges := p.FindEdges(img)
	encoded, err := imaging.EncodePNGBase64(imaging.RenderEdges(edges))
	if err != nil {
		return nil, err
	}

	n := highlight.CountEdges(edges)
	ratio := 0.0
	if edges.Len() > 0 {
		ratio = float64(n) / float64(edges.Len())
	}
	return &EdgesResult{
		Width:       edges.Width(),
		Height:      edges.Height(),
		EdgePixels:  n,
		EdgeRatio:   ratio,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type heatMapArgs struct {
	pipelineArgs
	Scale int `json:"scale"`
}

// HeatMapResult describes the crisp heat map of an image.
type HeatMapResult struct {
	GridWidth   int    `json:"grid_width"`
	GridHeight  int    `json:"grid_height"`
	HeatMax     int    `json:"heat_max"`
	HeatMean    int    `json:"heat_mean"`
	Positive    int    `json:"positive_cells"`
	NoActivity  bool   `json:"no_activity"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleHeatMap(args json.RawMessage) (interface{}, error) {
	var a heatMapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 4
	}
	p, img, err := s.load(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if err := p.Config().CheckDimensions(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	hm, err := p.BuildHeatMap(p.FindEdges(img))
	if err != nil && !errors.Is(err, highlight.ErrNoActivity) {
		return nil, err
	}

	encoded, err := imaging.EncodePNGBase64(imaging.RenderHeat(hm.Grid, hm.Max, a.Scale))
	if err != nil {
		return nil, err
	}
	return &HeatMapResult{
		GridWidth:   hm.Grid.Width(),
		GridHeight:  hm.Grid.Height(),
		HeatMax:     hm.Max,
		HeatMean:    hm.Mean,
		Positive:    hm.Positive,
		NoActivity:  hm.Positive == 0,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type extractArgs struct {
	pipelineArgs
	IncludeImage bool `json:"include_image"`
	Scale        int  `json:"scale"`
}

// ExtractResult is the run manifest, optionally with a rendering of the
// stabilized cells.
type ExtractResult struct {
	*report.Manifest
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

func (s *Server) handleExtract(args json.RawMessage) (interface{}, error) {
	var a extractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 4
	}
	res, _, err := s.run(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	out := &ExtractResult{Manifest: report.Build(uuid.NewString(), res)}
	if a.IncludeImage && res.Stable != nil {
		encoded, err := imaging.EncodePNGBase64(imaging.RenderPoints(highlight.Threshold(res.Stable), a.Scale))
		if err != nil {
			return nil, err
		}
		out.ImageBase64 = encoded
		out.MimeType = "image/png"
	}
	return out, nil
}

// === Output Handlers ===

type cutArgs struct {
	pipelineArgs
	OutputDir string  `json:"output_dir"`
	Scale     float64 `json:"scale"`
}

// CutResult lists the cropped highlights.
type CutResult struct {
	Count      int                  `json:"count"`
	NoActivity bool                 `json:"no_activity"`
	Highlights []imaging.CropResult `json:"highlights"`
}

func (s *Server) handleCut(args json.RawMessage) (interface{}, error) {
	var a cutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	res, img, err := s.run(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	out := &CutResult{
		Count:      len(res.Highlights),
		NoActivity: res.NoActivity,
		Highlights: make([]imaging.CropResult, 0, len(res.Highlights)),
	}

	if a.OutputDir != "" {
		paths, err := report.SaveHighlights(a.OutputDir, res.Highlights)
		if err != nil {
			return nil, err
		}
		for i, h := range res.Highlights {
			out.Highlights = append(out.Highlights, imaging.CropResult{
				X1: h.Rect.Min.X, Y1: h.Rect.Min.Y,
				X2: h.Rect.Max.X, Y2: h.Rect.Max.Y,
				Width:  h.Rect.Dx(),
				Height: h.Rect.Dy(),
				File:   paths[i],
			})
		}
		return out, nil
	}

	for _, h := range res.Highlights {
		crop, err := imaging.Crop(img, h.Rect, a.Scale)
		if err != nil {
			return nil, fmt.Errorf("highlight %d: %w", h.Index, err)
		}
		out.Highlights = append(out.Highlights, *crop)
	}
	return out, nil
}

type annotateArgs struct {
	pipelineArgs
	Color     string `json:"color"`
	LineWidth int    `json:"line_width"`
	Labels    bool   `json:"labels"`
}

func (s *Server) handleAnnotate(args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#FF0000"
	}
	if a.LineWidth == 0 {
		a.LineWidth = 2
	}
	res, img, err := s.run(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	rects := make([]image.Rectangle, len(res.Highlights))
	for i, h := range res.Highlights {
		rects[i] = h.Rect
	}
	return imaging.AnnotateEncoded(img, rects, a.Color, a.LineWidth, a.Labels)
}
