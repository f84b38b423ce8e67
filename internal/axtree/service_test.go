package axtree_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mj1618/macpilot/internal/axtree"
	"github.com/mj1618/macpilot/internal/axtree/axtreetest"
)

// finderSetup returns a provider whose focused element is a text field inside
// a Finder window (pid 42, window id 7).
func finderSetup() (*axtreetest.Provider, *axtreetest.Element) {
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

	return &axtreetest.Provider{
		Focused: field,
		Apps:    map[int]*axtreetest.Element{42: app},
	}, win
}

func TestGetFocusedWindowInfo(t *testing.T) {
	p, _ := finderSetup()
	got := axtree.NewService(p).GetFocusedWindowInfo()
	want := `{"pid":42,"name":"Finder","windowID":7}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGetFocusedWindowInfo_Partial(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *axtreetest.Provider, win *axtreetest.Element)
		want  string
	}{
		{
			"no focused element",
			func(p *axtreetest.Provider, _ *axtreetest.Element) { p.Focused = nil },
			`{"pid":0,"name":"","windowID":0}`,
		},
		{
			"pid unreadable",
			func(p *axtreetest.Provider, _ *axtreetest.Element) { p.Focused.FailPID = true },
			`{"pid":0,"name":"","windowID":0}`,
		},
		{
			"app title unreadable",
			func(p *axtreetest.Provider, _ *axtreetest.Element) { delete(p.Apps[42].Attrs, axtree.AttrTitle) },
			`{"pid":42,"name":"","windowID":7}`,
		},
		{
			"no window",
			func(p *axtreetest.Provider, _ *axtreetest.Element) { delete(p.Focused.Attrs, axtree.AttrWindow) },
			`{"pid":42,"name":"Finder","windowID":0}`,
		},
		{
			"window id unreadable",
			func(_ *axtreetest.Provider, win *axtreetest.Element) { win.FailWindowID = true },
			`{"pid":42,"name":"Finder","windowID":0}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, win := finderSetup()
			tt.setup(p, win)
			if got := axtree.NewService(p).GetFocusedWindowInfo(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetWindowStructure(t *testing.T) {
	p, _ := finderSetup()
	m := decode(t, axtree.NewService(p).GetWindowStructure())
	if m["AXTitle"] != "Documents" {
		t.Errorf("walked the wrong element: %v", m)
	}
	children, _ := m["children"].([]any)
	if len(children) != 1 {
		t.Fatalf("children = %v", m["children"])
	}
	if children[0].(map[string]any)["AXRole"] != "AXTextField" {
		t.Errorf("child = %v", children[0])
	}
}

func TestGetWindowStructure_Failures(t *testing.T) {
	p, _ := finderSetup()
	p.FocusedErr = errors.New("cannot complete")
	if got := axtree.NewService(p).GetWindowStructure(); got != "获取焦点窗口失败" {
		t.Errorf("no focus: got %q", got)
	}

	p, _ = finderSetup()
	p.Focused.Attrs[axtree.AttrWindow] = "not an element"
	if got := axtree.NewService(p).GetWindowStructure(); got != "获取窗口失败" {
		t.Errorf("no window: got %q", got)
	}

	p, _ = finderSetup()
	delete(p.Focused.Attrs, axtree.AttrWindow)
	_, err := axtree.NewService(p).FocusedWindowDocument()
	if !errors.Is(err, axtree.ErrNoFocusedWindow) {
		t.Errorf("err = %v, want ErrNoFocusedWindow", err)
	}
}

func TestGetWindowsStructureByPID(t *testing.T) {
	p, _ := finderSetup()
	s := axtree.NewService(p)

	m := decode(t, s.GetWindowsStructureByPID(42, 0))
	if m["AXTitle"] != "Documents" {
		t.Errorf("got %v", m)
	}

	if got := s.GetWindowsStructureByPID(999, 0); got != "获取窗口信息失败" {
		t.Errorf("unknown pid: got %q", got)
	}

	p.Apps[42].Attrs[axtree.AttrWindows] = []any{}
	if got := s.GetWindowsStructureByPID(42, 0); got != "获取窗口信息失败" {
		t.Errorf("no windows: got %q", got)
	}
}

func TestWindowTree_WindowNumberDoesNotSelect(t *testing.T) {
	p, first := finderSetup()
	second := axtreetest.NewElement(20, "AXWindow")
	second.Attrs["AXTitle"] = "Downloads"
	p.Apps[42].Attrs[axtree.AttrWindows] = []any{first, second}

	rec := &axtreetest.Recorder{}
	s := axtree.NewService(p, axtree.WithObserver(rec))

	m := decode(t, s.GetWindowsStructureByPID(42, 2))
	if m["AXTitle"] != "Documents" {
		t.Errorf("expected first window, got %v", m["AXTitle"])
	}
	if rec.Count(axtree.EventWindowNumberIgnored) != 1 {
		t.Error("expected a window-number-ignored event")
	}

	s.GetWindowsStructureByPID(42, 0)
	if rec.Count(axtree.EventWindowNumberIgnored) != 1 {
		t.Error("window number 0 should not be reported")
	}
}

func TestGetWindowsListInfo_PIDFilter(t *testing.T) {
	p := &axtreetest.Provider{Windows: []map[string]any{
		{"kCGWindowOwnerPID": 1499, "kCGWindowOwnerName": "low"},
		{"kCGWindowOwnerPID": 1500, "kCGWindowOwnerName": "edge"},
		{"kCGWindowOwnerPID": int64(2300), "kCGWindowOwnerName": "wide"},
		{"kCGWindowOwnerPID": 1800.0, "kCGWindowOwnerName": "float"},
		{"kCGWindowOwnerName": "missing"},
		{"kCGWindowOwnerPID": "3000", "kCGWindowOwnerName": "string"},
		{"kCGWindowOwnerPID": 100, "kCGWindowOwnerName": "system"},
	}}

	got, err := axtree.NewResolver(p).OnScreenWindows()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, w := range got {
		names = append(names, w["kCGWindowOwnerName"].(string))
	}
	if strings.Join(names, ",") != "edge,wide,float" {
		t.Errorf("kept %v", names)
	}

	doc := axtree.NewService(p).GetWindowsListInfo()
	if !strings.Contains(doc, `"kCGWindowOwnerName": "edge"`) || strings.Contains(doc, "low") {
		t.Errorf("unexpected document:\n%s", doc)
	}
}

func TestGetWindowsListInfo_EnumerationFailure(t *testing.T) {
	rec := &axtreetest.Recorder{}
	p := &axtreetest.Provider{WindowsErr: errors.New("window server unavailable")}
	if got := axtree.NewService(p, axtree.WithObserver(rec)).GetWindowsListInfo(); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
	if rec.Count(axtree.EventWindowListFailed) != 1 {
		t.Error("expected a window-list-failed event")
	}
}

func TestGetWindowsListInfo_Empty(t *testing.T) {
	if got := axtree.NewService(&axtreetest.Provider{}).GetWindowsListInfo(); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestService_ConcurrentCalls(t *testing.T) {
	p, _ := finderSetup()
	s := axtree.NewService(p)
	want := s.GetWindowStructure()

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := s.GetWindowStructure(); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent result differs:\n%s", got)
	}
}

func TestFlatten(t *testing.T) {
	if got := axtree.Flatten("{}", nil); got != "{}" {
		t.Errorf("got %q", got)
	}
	if got := axtree.Flatten("", axtree.ErrNoProcessWindow); got != "获取窗口信息失败" {
		t.Errorf("got %q", got)
	}
	if got := axtree.Flatten("", errors.New("boom")); got != "boom" {
		t.Errorf("got %q", got)
	}
}
