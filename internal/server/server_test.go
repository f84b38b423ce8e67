package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/macpilot/internal/apps"
	"github.com/mj1618/macpilot/internal/axtree"
	"github.com/mj1618/macpilot/internal/axtree/axtreetest"
	"github.com/mj1618/macpilot/internal/config"
	"github.com/mj1618/macpilot/internal/logging"
	"github.com/mj1618/macpilot/internal/platform"
	"github.com/mj1618/macpilot/internal/shell"
)

type fakeInputter struct {
	pos     platform.Point
	posErr  error
	moves   []platform.Point
	clicks  []string
	combos  [][]string
	moveErr error
}

func (f *fakeInputter) CursorPosition() (platform.Point, error) { return f.pos, f.posErr }

func (f *fakeInputter) MoveMouse(x, y int) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, platform.Point{X: float64(x), Y: float64(y)})
	return nil
}

func (f *fakeInputter) Click(x, y int, button platform.MouseButton, count int) error {
	f.clicks = append(f.clicks, fmt.Sprintf("%s %d,%d x%d", button, x, y, count))
	return nil
}

func (f *fakeInputter) KeyCombo(keys []string) error {
	f.combos = append(f.combos, keys)
	return nil
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) GetText() (string, error) { return f.text, nil }
func (f *fakeClipboard) SetText(s string) error   { f.text = s; return nil }

type fakeScreen struct {
	info    platform.ScreenInfo
	png     []byte
	capErr  error
	infoErr error
}

func (f *fakeScreen) MainScreen() (platform.ScreenInfo, error) { return f.info, f.infoErr }
func (f *fakeScreen) Capture() ([]byte, error)                 { return f.png, f.capErr }

type fakeCatalog struct{ apps []apps.App }

func (c fakeCatalog) List() []apps.App { return c.apps }

func (c fakeCatalog) Find(name string) (apps.App, error) {
	for _, a := range c.apps {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return apps.App{}, apps.ErrNotFound
}

type fakeLauncher struct {
	launched []string
	err      error
}

func (l *fakeLauncher) Launch(_ context.Context, bundleID string) error {
	if l.err != nil {
		return l.err
	}
	l.launched = append(l.launched, bundleID)
	return nil
}

type fixture struct {
	srv      *Server
	ax       *axtreetest.Provider
	input    *fakeInputter
	clip     *fakeClipboard
	screen   *fakeScreen
	launcher *fakeLauncher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	win := axtreetest.NewElement(10, "AXWindow")
	win.Attrs["AXTitle"] = "Documents"
	win.WindowID = 7
	win.PID = 42
	field := axtreetest.NewElement(11, "AXTextField")
	field.Attrs[axtree.AttrWindow] = win
	field.PID = 42
	win.AddChild(field)
	app := axtreetest.NewElement(12, "AXApplication")
	app.Attrs[axtree.AttrTitle] = "Finder"
	app.Attrs[axtree.AttrWindows] = []any{win}

	f := &fixture{
		ax: &axtreetest.Provider{
			Focused: field,
			Apps:    map[int]*axtreetest.Element{42: app},
			Windows: []map[string]any{
				{"kCGWindowOwnerPID": 1600, "kCGWindowOwnerName": "Mail", "kCGWindowNumber": 31},
				{"kCGWindowOwnerPID": 90, "kCGWindowOwnerName": "Dock", "kCGWindowNumber": 2},
			},
		},
		input:    &fakeInputter{pos: platform.Point{X: 120, Y: 45.5}},
		clip:     &fakeClipboard{},
		screen:   &fakeScreen{info: platform.ScreenInfo{Width: 1440, Height: 900, Scale: 2}, png: testPNG(t, 40, 20)},
		launcher: &fakeLauncher{},
	}
	f.srv = New(&platform.Provider{
		Accessibility: f.ax,
		Inputter:      f.input,
		Clipboard:     f.clip,
		Screen:        f.screen,
	}, Options{
		Config: config.Default(),
		Logger: logging.Discard(),
		Catalog: fakeCatalog{apps: []apps.App{
			{Name: "Safari", BundleID: "com.apple.Safari"},
			{Name: "TextEdit", BundleID: "com.apple.TextEdit"},
		}},
		Launcher: f.launcher,
	})
	return f
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func call(t *testing.T, fn toolFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := fn(context.Background(), req, logging.Discard())
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return result
}

func text(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if len(r.Content) != 1 {
		t.Fatalf("content = %d items", len(r.Content))
	}
	tc, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, not text", r.Content[0])
	}
	return tc.Text
}

func TestNew_RegistersTools(t *testing.T) {
	f := newFixture(t)
	tools := f.srv.MCP().ListTools()
	for _, name := range []string{
		"repeat", "getCursorPosition", "moveCursor", "clickMouse", "pasteText",
		"executeCommand", "launchApp", "getAppsList", "getWindowsList",
		"getWindowInfo", "getFocusedWindowInfo", "captureScreen",
	} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestServe_UnknownTransport(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Transport = "carrier-pigeon"
	s := New(&platform.Provider{}, Options{Config: cfg})
	err := s.Serve()
	if err == nil || !strings.Contains(err.Error(), "unsupported transport") {
		t.Errorf("err = %v", err)
	}
}

func TestHandleRepeat(t *testing.T) {
	f := newFixture(t)
	if got := text(t, call(t, f.srv.handleRepeat, map[string]any{"text": "héllo"})); got != "héllo" {
		t.Errorf("got %q", got)
	}
	if r := call(t, f.srv.handleRepeat, map[string]any{}); !r.IsError {
		t.Error("missing text should be a tool error")
	}
}

func TestHandleGetCursorPosition(t *testing.T) {
	f := newFixture(t)
	got := text(t, call(t, f.srv.handleGetCursorPosition, nil))
	want := `{"x":120,"y":45.5,"screen":{"width":1440,"height":900,"scale":2}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	f.input.posErr = errors.New("no event source")
	if got := text(t, call(t, f.srv.handleGetCursorPosition, nil)); got != msgCursorFailed {
		t.Errorf("got %q", got)
	}
}

func TestHandleMoveCursor(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		args map[string]any
		want string
	}{
		{map[string]any{"x": 100.0, "y": 200.0}, "鼠标已移动到 100.0, 200.0"},
		{map[string]any{"x": 10.5, "y": 3}, "鼠标已移动到 10.5, 3.0"},
	}
	for _, tt := range tests {
		if got := text(t, call(t, f.srv.handleMoveCursor, tt.args)); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
	if len(f.input.moves) != 2 || f.input.moves[1] != (platform.Point{X: 11, Y: 3}) {
		t.Errorf("moves = %v", f.input.moves)
	}

	if r := call(t, f.srv.handleMoveCursor, map[string]any{"x": "1"}); !r.IsError {
		t.Error("non-numeric x should be a tool error")
	}
	f.input.moveErr = errors.New("denied")
	if r := call(t, f.srv.handleMoveCursor, map[string]any{"x": 1.0, "y": 1.0}); !r.IsError {
		t.Error("move failure should be a tool error")
	}
}

func TestHandleClickMouse(t *testing.T) {
	f := newFixture(t)
	if got := text(t, call(t, f.srv.handleClickMouse, nil)); got != msgClicked {
		t.Errorf("got %q", got)
	}
	if len(f.input.clicks) != 1 || f.input.clicks[0] != "left 120,46 x1" {
		t.Errorf("clicks = %v", f.input.clicks)
	}
}

func TestHandlePasteText(t *testing.T) {
	f := newFixture(t)
	if got := text(t, call(t, f.srv.handlePasteText, map[string]any{"text": "hello"})); got != msgPasted {
		t.Errorf("got %q", got)
	}
	if f.clip.text != "hello" {
		t.Errorf("clipboard = %q", f.clip.text)
	}
	if len(f.input.combos) != 1 || strings.Join(f.input.combos[0], "+") != "cmd+v" {
		t.Errorf("combos = %v", f.input.combos)
	}
}

func TestHandleExecuteCommand(t *testing.T) {
	f := newFixture(t)
	got := text(t, call(t, f.srv.handleExecuteCommand, map[string]any{
		"command": "printf",
		"args":    []any{"%s-%s", "a", "b"},
	}))
	if got != `{"exitStatus":0,"output":"a-b","error":""}` {
		t.Errorf("got %s", got)
	}

	got = text(t, call(t, f.srv.handleExecuteCommand, map[string]any{"command": "false"}))
	if got != `{"exitStatus":1,"output":"","error":""}` {
		t.Errorf("got %s", got)
	}

	if r := call(t, f.srv.handleExecuteCommand, map[string]any{"command": "echo", "args": []any{1}}); !r.IsError {
		t.Error("non-string arg should be a tool error")
	}

	f.srv.shell = shell.NewRunner(false)
	if r := call(t, f.srv.handleExecuteCommand, map[string]any{"command": "true"}); !r.IsError {
		t.Error("disabled shell should be a tool error")
	}
}

func TestHandleLaunchApp(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		launchErr error
		want      string
		launched  string
	}{
		{"no arguments", map[string]any{}, nil, msgAppArgsMissing, ""},
		{"bundle id", map[string]any{"bundleId": "com.apple.Notes"}, nil, msgAppLaunched, "com.apple.Notes"},
		{"bundle id wins", map[string]any{"bundleId": "com.apple.Notes", "appName": "Safari"}, nil, msgAppLaunched, "com.apple.Notes"},
		{"name ignoring case", map[string]any{"appName": "textedit"}, nil, msgAppLaunched, "com.apple.TextEdit"},
		{"unknown name", map[string]any{"appName": "Nope"}, nil, "找不到应用：Nope", ""},
		{"unresolvable bundle", map[string]any{"bundleId": "com.example.gone"}, apps.ErrNotFound, msgAppNotFound, ""},
		{"empty bundle", map[string]any{"bundleId": ""}, nil, msgAppNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.launcher.err = tt.launchErr
			if got := text(t, call(t, f.srv.handleLaunchApp, tt.args)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			got := strings.Join(f.launcher.launched, ",")
			if got != tt.launched {
				t.Errorf("launched %q, want %q", got, tt.launched)
			}
		})
	}
}

func TestHandleGetAppsList(t *testing.T) {
	f := newFixture(t)
	got := text(t, call(t, f.srv.handleGetAppsList, nil))
	want := `[{"appName":"Safari","bundleId":"com.apple.Safari"},{"appName":"TextEdit","bundleId":"com.apple.TextEdit"}]`
	if got != want {
		t.Errorf("got %s", got)
	}

	f.srv.catalog = fakeCatalog{apps: []apps.App{}}
	if got := text(t, call(t, f.srv.handleGetAppsList, nil)); got != "[]" {
		t.Errorf("empty catalog: got %s", got)
	}
}

func TestHandleGetWindowsList(t *testing.T) {
	f := newFixture(t)
	got := text(t, call(t, f.srv.handleGetWindowsList, nil))
	if !strings.Contains(got, `"kCGWindowOwnerName": "Mail"`) || strings.Contains(got, "Dock") {
		t.Errorf("got:\n%s", got)
	}

	got = text(t, call(t, f.srv.handleGetWindowsList, map[string]any{"query": "map(.kCGWindowNumber)"}))
	if got != "[\n  31\n]" {
		t.Errorf("query result:\n%s", got)
	}

	if r := call(t, f.srv.handleGetWindowsList, map[string]any{"query": "map("}); !r.IsError {
		t.Error("bad query should be a tool error")
	}
}

func TestHandleGetWindowInfo(t *testing.T) {
	f := newFixture(t)

	focused := text(t, call(t, f.srv.handleGetWindowInfo, nil))
	if !strings.Contains(focused, `"AXTitle": "Documents"`) {
		t.Errorf("focused:\n%s", focused)
	}
	byPID := text(t, call(t, f.srv.handleGetWindowInfo, map[string]any{"pid": 42.0, "windowNumber": 3.0}))
	if byPID != focused {
		t.Errorf("by pid differs from focused:\n%s", byPID)
	}

	if got := text(t, call(t, f.srv.handleGetWindowInfo, map[string]any{"pid": 999.0})); got != "获取窗口信息失败" {
		t.Errorf("unknown pid: %q", got)
	}
	// The query is not run over a failure message.
	if got := text(t, call(t, f.srv.handleGetWindowInfo, map[string]any{"pid": 999.0, "query": ".AXTitle"})); got != "获取窗口信息失败" {
		t.Errorf("unknown pid with query: %q", got)
	}

	if got := text(t, call(t, f.srv.handleGetWindowInfo, map[string]any{"query": ".AXTitle"})); got != `"Documents"` {
		t.Errorf("query: %q", got)
	}

	f.ax.Focused = nil
	if got := text(t, call(t, f.srv.handleGetWindowInfo, nil)); got != "获取焦点窗口失败" {
		t.Errorf("no focus: %q", got)
	}
}

func TestHandleGetFocusedWindowInfo(t *testing.T) {
	f := newFixture(t)
	got := text(t, call(t, f.srv.handleGetFocusedWindowInfo, nil))
	if got != `{"pid":42,"name":"Finder","windowID":7}` {
		t.Errorf("got %s", got)
	}
}

func TestHandleCaptureScreen(t *testing.T) {
	f := newFixture(t)
	r := call(t, f.srv.handleCaptureScreen, map[string]any{"format": "jpg", "scale": 0.5, "markCursor": true})
	if r.IsError {
		t.Fatalf("unexpected error: %v", r.Content)
	}
	img, ok := r.Content[0].(mcp.ImageContent)
	if !ok {
		t.Fatalf("content is %T", r.Content[0])
	}
	if img.MIMEType != "image/jpeg" || img.Data == "" {
		t.Errorf("image = %s, %d bytes", img.MIMEType, len(img.Data))
	}

	if r := call(t, f.srv.handleCaptureScreen, map[string]any{"format": "gif"}); !r.IsError {
		t.Error("gif should be rejected")
	}
	f.screen.capErr = errors.New("screen recording permission not granted")
	if r := call(t, f.srv.handleCaptureScreen, nil); !r.IsError {
		t.Error("capture failure should be a tool error")
	}
}

func TestHandlers_Unsupported(t *testing.T) {
	s := New(&platform.Provider{}, Options{Config: config.Default()})
	for name, fn := range map[string]toolFunc{
		"getCursorPosition":    s.handleGetCursorPosition,
		"clickMouse":           s.handleClickMouse,
		"getWindowsList":       s.handleGetWindowsList,
		"getWindowInfo":        s.handleGetWindowInfo,
		"getFocusedWindowInfo": s.handleGetFocusedWindowInfo,
		"captureScreen":        s.handleCaptureScreen,
	} {
		if r := call(t, fn, nil); !r.IsError {
			t.Errorf("%s: expected tool error without a platform", name)
		}
	}
}

func TestTraced(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug")
	if err != nil {
		t.Fatal(err)
	}
	f.srv.logger = logger

	h := f.srv.traced("repeat", f.srv.handleRepeat)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"text": "x"}
	if _, err := h(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "request_id=") || !strings.Contains(out, "tool=repeat") {
		t.Errorf("log lacks call fields:\n%s", out)
	}
}
