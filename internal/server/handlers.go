package server

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
	"github.com/ironsheep/image-filter-mcp/internal/geometry"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/orientation"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "filter_open", "filter_resize").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// sessionOps maps the per-session tools onto pipeline operations.
var sessionOps = map[string]string{
	"filter_resize":              "resize",
	"filter_resize_crop":         "resize_crop",
	"filter_resize_quad":         "resize_quad",
	"filter_desaturate":          "desaturate",
	"filter_add_border":          "add_border",
	"filter_process_orientation": "process_orientation",
	"filter_rotate":              "rotate",
	"filter_set_format":          "set_format",
	"filter_set_orientation":     "set_orientation",
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if op, ok := sessionOps[name]; ok {
		return s.handleSessionOp(op, args)
	}

	switch name {
	case "filter_open":
		return s.handleFilterOpen(args)
	case "filter_info":
		return s.handleFilterInfo(args)
	case "filter_save":
		return s.handleFilterSave(args)
	case "filter_release":
		return s.handleFilterRelease(args)
	case "filter_apply":
		return s.handleFilterApply(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// sessionResult is the reply of most session tools.
type sessionResult struct {
	SessionID string `json:"session_id"`
	*filter.Info
}

// operation is one pipeline step, shared by filter_apply and the session
// tools. Fields a step does not use are ignored.
type operation struct {
	Op          string  `json:"op"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Size        int     `json:"size"`
	Degrees     float64 `json:"degrees"`
	Behavior    string  `json:"behavior"`
	Quality     *int    `json:"quality"`
	Format      string  `json:"format"`
	Orientation string  `json:"orientation"`
}

// resizeParams fills in the configured defaults for behavior and quality.
func (s *Server) resizeParams(op operation) (geometry.Behavior, int, error) {
	b := s.cfg.Behavior()
	if op.Behavior != "" {
		var err error
		if b, err = geometry.ParseBehavior(op.Behavior); err != nil {
			return b, 0, err
		}
	}
	q := s.cfg.DefaultQuality
	if op.Quality != nil {
		q = *op.Quality
	}
	return b, q, nil
}

// applyOp runs op on p and returns the pipeline's error state.
func (s *Server) applyOp(p *filter.Pipeline, op operation) error {
	switch op.Op {
	case "resize", "resize_crop", "resize_quad":
		b, q, err := s.resizeParams(op)
		if err != nil {
			return err
		}
		switch op.Op {
		case "resize":
			p.Resize(op.Width, op.Height, b, q)
		case "resize_crop":
			p.ResizeCrop(op.Width, op.Height, b, q)
		default:
			p.ResizeQuad(op.Size, b, q)
		}
	case "desaturate":
		p.Desaturate()
	case "add_border":
		p.AddBorder(op.Width, op.Height)
	case "process_orientation":
		p.ProcessOrientation()
	case "rotate":
		p.Rotate(op.Degrees)
	case "set_format":
		f, err := imaging.ParseFormat(op.Format)
		if err != nil {
			return err
		}
		p.SetFormat(f)
	case "set_orientation":
		o, err := orientation.Parse(op.Orientation)
		if err != nil {
			return err
		}
		p.SetOrientation(o)
	default:
		return fmt.Errorf("unknown operation: %q", op.Op)
	}
	return p.Err()
}

// withSession runs fn on the session's pipeline while holding its lock.
func (s *Server) withSession(id string, fn func(p *filter.Pipeline) (interface{}, error)) (interface{}, error) {
	sess, err := s.sessions.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.p)
}

func (s *Server) infoResult(id string, p *filter.Pipeline) (interface{}, error) {
	info, err := p.Info()
	if err != nil {
		return nil, err
	}
	return &sessionResult{SessionID: id, Info: info}, nil
}

// === Session Lifecycle Handlers ===

type filterOpenArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func (s *Server) handleFilterOpen(args json.RawMessage) (interface{}, error) {
	var a filterOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := []filter.Option{
		filter.WithLogger(s.log),
		filter.WithDefaultQuality(s.cfg.DefaultQuality),
	}
	if a.Format != "" {
		f, err := imaging.ParseFormat(a.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, filter.WithFormat(f))
	}

	p, err := filter.Open(a.Path, opts...)
	if err != nil {
		return nil, err
	}
	id, err := s.sessions.add(a.Path, p)
	if err != nil {
		_ = p.Release()
		return nil, err
	}
	s.log.Info("session opened", zap.String("session", id), zap.String("path", a.Path))
	return s.infoResult(id, p)
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleFilterInfo(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(p *filter.Pipeline) (interface{}, error) {
		return s.infoResult(a.SessionID, p)
	})
}

type filterSaveArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
}

type saveResult struct {
	SessionID string `json:"session_id,omitempty"`
	Path      string `json:"path"`
	*filter.Info
}

func (s *Server) handleFilterSave(args json.RawMessage) (interface{}, error) {
	var a filterSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return s.withSession(a.SessionID, func(p *filter.Pipeline) (interface{}, error) {
		if err := p.Save(a.Path); err != nil {
			return nil, err
		}
		info, err := p.Info()
		if err != nil {
			return nil, err
		}
		return &saveResult{SessionID: a.SessionID, Path: a.Path, Info: info}, nil
	})
}

type releaseResult struct {
	SessionID string `json:"session_id"`
	Released  bool   `json:"released"`
}

func (s *Server) handleFilterRelease(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.sessions.remove(a.SessionID); err != nil {
		return nil, err
	}
	s.log.Info("session released", zap.String("session", a.SessionID))
	return &releaseResult{SessionID: a.SessionID, Released: true}, nil
}

// === Pipeline Operation Handlers ===

type sessionOpArgs struct {
	SessionID string `json:"session_id"`
	operation
}

type orientationResult struct {
	sessionResult
	From    string             `json:"from"`
	Applied orientation.Action `json:"applied"`
	Changed bool               `json:"changed"`
}

func (s *Server) handleSessionOp(op string, args json.RawMessage) (interface{}, error) {
	var a sessionOpArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.Op = op

	return s.withSession(a.SessionID, func(p *filter.Pipeline) (interface{}, error) {
		before, err := p.Orientation()
		if err != nil {
			return nil, err
		}
		if err := s.applyOp(p, a.operation); err != nil {
			return nil, err
		}
		info, err := p.Info()
		if err != nil {
			return nil, err
		}
		res := sessionResult{SessionID: a.SessionID, Info: info}
		if op == "process_orientation" {
			applied := orientation.Lookup(before)
			return &orientationResult{
				sessionResult: res,
				From:          before.String(),
				Applied:       applied,
				Changed:       !applied.IsNoop(),
			}, nil
		}
		return &res, nil
	})
}

// === One-shot Handler ===

type filterApplyArgs struct {
	Input      string      `json:"input"`
	Output     string      `json:"output"`
	Format     string      `json:"format"`
	Operations []operation `json:"operations"`
}

type applyResult struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	Operations int    `json:"operations"`
	*filter.Info
}

func (s *Server) handleFilterApply(args json.RawMessage) (interface{}, error) {
	var a filterApplyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output is required")
	}

	// The output format comes from the explicit format, then the output
	// extension, then the input. A known format also lets inputs without a
	// recognized extension open.
	var format *imaging.Format
	if a.Format != "" {
		f, err := imaging.ParseFormat(a.Format)
		if err != nil {
			return nil, err
		}
		format = &f
	} else if f, err := imaging.FormatFromPath(a.Output); err == nil {
		format = &f
	}

	opts := []filter.Option{
		filter.WithLogger(s.log),
		filter.WithDefaultQuality(s.cfg.DefaultQuality),
	}
	if format != nil {
		opts = append(opts, filter.WithFormat(*format))
	}
	p, err := filter.Open(a.Input, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Release()
	for i, op := range a.Operations {
		if err := s.applyOp(p, op); err != nil {
			return nil, errors.Wrapf(err, "operation %d (%s)", i+1, op.Op)
		}
	}
	if err := p.Save(a.Output); err != nil {
		return nil, err
	}

	info, err := p.Info()
	if err != nil {
		return nil, err
	}
	return &applyResult{Input: a.Input, Output: a.Output, Operations: len(a.Operations), Info: info}, nil
}

// === Inspection Handler ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Release()
	return imaging.SampleColor(img, a.X, a.Y)
}
