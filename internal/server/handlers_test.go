package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-filter-mcp/internal/config"
)

// writeTestPNG writes a w x h image whose left column is red and the rest
// blue, and returns its path.
func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 {
				img.Set(x, y, color.NRGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.NRGBA{0, 0, 255, 255})
			}
		}
	}
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// callTool runs a tools/call request and decodes the text content into a
// map. It returns the JSON-RPC error instead when the call fails.
func callTool(t *testing.T, s *Server, name string, args interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp)
	if resp.Error != nil {
		return nil, resp.Error
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), &out))
	return out, nil
}

func mustCall(t *testing.T, s *Server, name string, args interface{}) map[string]interface{} {
	t.Helper()
	out, rpcErr := callTool(t, s, name, args)
	require.Nil(t, rpcErr, "%s: %+v", name, rpcErr)
	return out
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestSessionFlow(t *testing.T) {
	s := New(nil, nil, "test")
	in := writeTestPNG(t, 300, 200)

	opened := mustCall(t, s, "filter_open", map[string]interface{}{"path": in})
	id := opened["session_id"].(string)
	assert.Equal(t, float64(300), opened["width"])
	assert.Equal(t, float64(200), opened["height"])
	assert.Equal(t, "png", opened["format"])

	resized := mustCall(t, s, "filter_resize", map[string]interface{}{"session_id": id, "width": 150, "height": 150})
	assert.Equal(t, float64(150), resized["width"])
	assert.Equal(t, float64(100), resized["height"])

	bordered := mustCall(t, s, "filter_add_border", map[string]interface{}{"session_id": id, "width": 150, "height": 150})
	assert.Equal(t, float64(150), bordered["height"])

	mustCall(t, s, "filter_desaturate", map[string]interface{}{"session_id": id})
	mustCall(t, s, "filter_set_format", map[string]interface{}{"session_id": id, "format": "jpeg"})

	out := filepath.Join(t.TempDir(), "out.jpg")
	saved := mustCall(t, s, "filter_save", map[string]interface{}{"session_id": id, "path": out})
	assert.Equal(t, "jpeg", saved["format"])
	w, h := decodeSize(t, out)
	assert.Equal(t, 150, w)
	assert.Equal(t, 150, h)

	released := mustCall(t, s, "filter_release", map[string]interface{}{"session_id": id})
	assert.Equal(t, true, released["released"])

	_, rpcErr := callTool(t, s, "filter_info", map[string]interface{}{"session_id": id})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "unknown session")
}

func TestSessionOps_Defaults(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultBehavior = "increase"
	s := New(cfg, nil, "test")
	id := mustCall(t, s, "filter_open", map[string]interface{}{"path": writeTestPNG(t, 100, 100)})["session_id"].(string)

	// Increase leaves an image larger than the target on both axes alone.
	res := mustCall(t, s, "filter_resize_quad", map[string]interface{}{"session_id": id, "size": 50})
	assert.Equal(t, float64(100), res["width"])

	res = mustCall(t, s, "filter_resize_quad", map[string]interface{}{"session_id": id, "size": 50, "behavior": "both"})
	assert.Equal(t, float64(50), res["width"])
	assert.Equal(t, float64(50), res["height"])

	_, rpcErr := callTool(t, s, "filter_resize", map[string]interface{}{"session_id": id, "width": 10, "height": 10, "behavior": "sideways"})
	assert.NotNil(t, rpcErr)
}

func TestSessionOps_Rotate(t *testing.T) {
	s := New(nil, nil, "test")
	id := mustCall(t, s, "filter_open", map[string]interface{}{"path": writeTestPNG(t, 40, 20)})["session_id"].(string)

	res := mustCall(t, s, "filter_rotate", map[string]interface{}{"session_id": id, "degrees": 90})
	assert.Equal(t, float64(20), res["width"])
	assert.Equal(t, float64(40), res["height"])

	res = mustCall(t, s, "filter_process_orientation", map[string]interface{}{"session_id": id})
	assert.Equal(t, "undefined", res["from"])
	assert.Equal(t, map[string]interface{}{"rotation": float64(0), "mirror": false}, res["applied"])
	assert.Equal(t, false, res["changed"])
}

func TestSessionOps_SetOrientation(t *testing.T) {
	s := New(nil, nil, "test")
	id := mustCall(t, s, "filter_open", map[string]interface{}{"path": writeTestPNG(t, 40, 20)})["session_id"].(string)

	res := mustCall(t, s, "filter_set_orientation", map[string]interface{}{"session_id": id, "orientation": "right-top"})
	assert.Equal(t, "right-top", res["orientation"])
	assert.Equal(t, float64(40), res["width"], "pixels are untouched")

	res = mustCall(t, s, "filter_process_orientation", map[string]interface{}{"session_id": id})
	assert.Equal(t, "right-top", res["from"])
	assert.Equal(t, true, res["changed"])
	assert.Equal(t, float64(20), res["width"])
	assert.Equal(t, float64(40), res["height"])
	assert.Equal(t, "undefined", res["orientation"])

	_, rpcErr := callTool(t, s, "filter_set_orientation", map[string]interface{}{"session_id": id, "orientation": "upside-down"})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "unknown orientation")
}

func TestSessionOps_FailureIsSticky(t *testing.T) {
	s := New(nil, nil, "test")
	id := mustCall(t, s, "filter_open", map[string]interface{}{"path": writeTestPNG(t, 40, 20)})["session_id"].(string)

	_, rpcErr := callTool(t, s, "filter_resize", map[string]interface{}{"session_id": id, "width": 0, "height": 10})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "invalid argument")

	_, rpcErr = callTool(t, s, "filter_desaturate", map[string]interface{}{"session_id": id})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "invalid argument")

	mustCall(t, s, "filter_release", map[string]interface{}{"session_id": id})
}

func TestFilterOpen_Errors(t *testing.T) {
	s := New(nil, nil, "test")

	_, rpcErr := callTool(t, s, "filter_open", map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing.png")})
	require.NotNil(t, rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Contains(t, rpcErr.Data, "load failed")

	_, rpcErr = callTool(t, s, "filter_open", map[string]interface{}{"path": writeTestPNG(t, 4, 4), "format": "tiff"})
	assert.NotNil(t, rpcErr)
	assert.Zero(t, s.sessions.len())
}

func TestFilterOpen_SessionLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxSessions = 1
	s := New(cfg, nil, "test")
	path := writeTestPNG(t, 4, 4)

	mustCall(t, s, "filter_open", map[string]interface{}{"path": path})
	_, rpcErr := callTool(t, s, "filter_open", map[string]interface{}{"path": path})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "too many open sessions")
	assert.Equal(t, 1, s.sessions.len())
}

func TestFilterApply(t *testing.T) {
	s := New(nil, nil, "test")
	in := writeTestPNG(t, 400, 300)
	out := filepath.Join(t.TempDir(), "thumb.jpg")

	res := mustCall(t, s, "filter_apply", map[string]interface{}{
		"input":  in,
		"output": out,
		"operations": []map[string]interface{}{
			{"op": "resize_crop", "width": 100, "height": 100, "quality": 80},
			{"op": "desaturate"},
		},
	})
	assert.Equal(t, "jpeg", res["format"], "format follows the output extension")
	assert.Equal(t, float64(2), res["operations"])

	w, h := decodeSize(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
	assert.Zero(t, s.sessions.len())
}

func TestFilterApply_InputWithoutExtension(t *testing.T) {
	s := New(nil, nil, "test")
	data, err := os.ReadFile(writeTestPNG(t, 40, 40))
	require.NoError(t, err)
	dir := t.TempDir()
	in := filepath.Join(dir, "upload")
	require.NoError(t, os.WriteFile(in, data, 0o644))

	out := filepath.Join(dir, "out")
	res := mustCall(t, s, "filter_apply", map[string]interface{}{
		"input":      in,
		"output":     out,
		"format":     "png",
		"operations": []map[string]interface{}{{"op": "resize", "width": 20, "height": 20}},
	})
	assert.Equal(t, "png", res["format"])

	w, h := decodeSize(t, out)
	assert.Equal(t, 20, w)
	assert.Equal(t, 20, h)

	// Without any format hint the input cannot be opened.
	_, rpcErr := callTool(t, s, "filter_apply", map[string]interface{}{
		"input":      in,
		"output":     out,
		"operations": []map[string]interface{}{{"op": "desaturate"}},
	})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "load failed")
}

func TestFilterApply_Animated(t *testing.T) {
	s := New(nil, nil, "test")
	dir := t.TempDir()
	in := filepath.Join(dir, "anim.gif")

	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{Delay: []int{5, 5}}
	for i := 0; i < 2; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 60, 30), pal)
		for j := range p.Pix {
			p.Pix[j] = uint8(i)
		}
		g.Image = append(g.Image, p)
	}
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, g))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "out.gif")
	res := mustCall(t, s, "filter_apply", map[string]interface{}{
		"input":      in,
		"output":     out,
		"operations": []map[string]interface{}{{"op": "resize_quad", "size": 20}},
	})
	assert.Equal(t, float64(2), res["frames"])

	data, err := os.Open(out)
	require.NoError(t, err)
	defer data.Close()
	decoded, err := gif.DecodeAll(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 2)
	assert.Equal(t, 20, decoded.Config.Width)
}

func TestFilterApply_Errors(t *testing.T) {
	s := New(nil, nil, "test")
	in := writeTestPNG(t, 40, 40)
	out := filepath.Join(t.TempDir(), "out.png")

	_, rpcErr := callTool(t, s, "filter_apply", map[string]interface{}{
		"input":      in,
		"output":     out,
		"operations": []map[string]interface{}{{"op": "desaturate"}, {"op": "sharpen"}},
	})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "operation 2 (sharpen)")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "nothing is written after a failed operation")

	_, rpcErr = callTool(t, s, "filter_apply", map[string]interface{}{"input": in, "operations": []interface{}{}})
	assert.NotNil(t, rpcErr)
}

func TestImageSampleColor(t *testing.T) {
	s := New(nil, nil, "test")
	path := writeTestPNG(t, 10, 10)

	res := mustCall(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 0, "y": 5})
	assert.Equal(t, "#ff0000", res["hex"])

	res = mustCall(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 5, "y": 5})
	assert.Equal(t, "#0000ff", res["hex"])

	_, rpcErr := callTool(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 10, "y": 0})
	assert.NotNil(t, rpcErr)
}

func TestUnknownTool(t *testing.T) {
	s := New(nil, nil, "test")
	_, rpcErr := callTool(t, s, "image_ocr_full", map[string]interface{}{})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Data, "unknown tool")
}
