package axtree

// MinListedPID is the lowest owner pid kept by OnScreenWindows. Windows owned
// by lower-numbered processes are dropped.
const MinListedPID = 1500

// WindowOwnerPIDKey is the window dictionary key holding the owner pid.
const WindowOwnerPIDKey = "kCGWindowOwnerPID"

// Failure is a terminal entry-point failure. Its message is meant to be shown
// to the caller as is.
type Failure struct {
	Message string
}

func (f *Failure) Error() string { return f.Message }

var (
	ErrNoFocusedElement = &Failure{Message: "获取焦点窗口失败"}
	ErrNoFocusedWindow  = &Failure{Message: "获取窗口失败"}
	ErrNoProcessWindow  = &Failure{Message: "获取窗口信息失败"}
)

// WindowDescriptor identifies a resolved window. Fields stay zero when the
// step that fills them fails.
type WindowDescriptor struct {
	PID      int    `json:"pid"      yaml:"pid"`
	Name     string `json:"name"     yaml:"name"`
	WindowID uint32 `json:"windowID" yaml:"windowID"`
}

// Resolver locates the window a walk should start from.
type Resolver struct {
	provider Provider
	walker   *Walker
	observer Observer
}

// NewResolver returns a Resolver over p. Options are shared with its Walker.
func NewResolver(p Provider, opts ...Option) *Resolver {
	s := newSettings(opts)
	return &Resolver{
		provider: p,
		walker:   NewWalker(p, opts...),
		observer: s.observer,
	}
}

// Walker returns the walker used for tree building.
func (r *Resolver) Walker() *Walker { return r.walker }

// FocusedWindowInfo describes the window holding input focus. It returns as
// much as it could resolve.
func (r *Resolver) FocusedWindowInfo() WindowDescriptor {
	var d WindowDescriptor

	focused, err := r.provider.FocusedElement()
	if err != nil || focused == nil {
		r.observer.Observe(Event{Kind: EventResolveFailed, Detail: "focused element", Err: err})
		return d
	}
	pid, err := r.provider.PID(focused)
	if err != nil {
		r.observer.Observe(Event{Kind: EventResolveFailed, Detail: "focused element pid", Err: err})
		return d
	}
	d.PID = pid

	app := r.provider.Application(pid)
	if title, err := r.provider.AttributeValue(app, AttrTitle); err == nil {
		if name, ok := title.(string); ok {
			d.Name = name
		}
	} else {
		r.observer.Observe(Event{Kind: EventResolveFailed, PID: pid, Attribute: AttrTitle, Err: err})
	}

	window, ok := r.focusedWindow(focused)
	if !ok {
		return d
	}
	if id, err := r.provider.WindowID(window); err == nil {
		d.WindowID = id
	} else {
		r.observer.Observe(Event{Kind: EventResolveFailed, PID: pid, Detail: "window id", Err: err})
	}
	return d
}

// FocusedWindowTree walks the window containing the focused element.
func (r *Resolver) FocusedWindowTree() (*Node, error) {
	focused, err := r.provider.FocusedElement()
	if err != nil || focused == nil {
		r.observer.Observe(Event{Kind: EventResolveFailed, Detail: "focused element", Err: err})
		return nil, ErrNoFocusedElement
	}
	window, ok := r.focusedWindow(focused)
	if !ok {
		return nil, ErrNoFocusedWindow
	}
	return r.walker.Build(window), nil
}

// WindowTree walks the first window of process pid.
//
// windowNumber does not take part in selection: the first window the
// application reports is always used.
func (r *Resolver) WindowTree(pid, windowNumber int) (*Node, error) {
	app := r.provider.Application(pid)
	v, err := r.provider.AttributeValue(app, AttrWindows)
	if err != nil {
		r.observer.Observe(Event{Kind: EventResolveFailed, PID: pid, Attribute: AttrWindows, Err: err})
		return nil, ErrNoProcessWindow
	}
	windows, _ := elementList(v)
	if len(windows) == 0 {
		r.observer.Observe(Event{Kind: EventResolveFailed, PID: pid, Attribute: AttrWindows, Detail: "no windows"})
		return nil, ErrNoProcessWindow
	}
	if windowNumber != 0 && len(windows) > 1 {
		r.observer.Observe(Event{
			Kind:   EventWindowNumberIgnored,
			PID:    pid,
			Detail: "walking first of several windows",
		})
	}
	return r.walker.Build(windows[0]), nil
}

// OnScreenWindows returns the raw metadata of on-screen windows whose owner
// pid is at least MinListedPID. A dictionary without a numeric owner pid is
// dropped.
func (r *Resolver) OnScreenWindows() ([]map[string]any, error) {
	all, err := r.provider.OnScreenWindows()
	if err != nil {
		r.observer.Observe(Event{Kind: EventWindowListFailed, Err: err})
		return nil, err
	}
	out := make([]map[string]any, 0, len(all))
	for _, w := range all {
		pid, _ := integerOf(w[WindowOwnerPIDKey])
		if pid < MinListedPID {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *Resolver) focusedWindow(focused Element) (Element, bool) {
	v, err := r.provider.AttributeValue(focused, AttrWindow)
	if err != nil {
		r.observer.Observe(Event{Kind: EventResolveFailed, Attribute: AttrWindow, Err: err})
		return nil, false
	}
	window, ok := v.(Element)
	if !ok || window == nil {
		r.observer.Observe(Event{Kind: EventResolveFailed, Attribute: AttrWindow, Detail: "not an element"})
		return nil, false
	}
	return window, true
}
