// Package axtreetest provides an in-memory accessibility provider for tests.
package axtreetest

import (
	"errors"
	"sort"
	"sync"

	"github.com/mj1618/macpilot/internal/axtree"
)

// ErrUnsupported mirrors the AX error for an attribute an element lacks.
var ErrUnsupported = errors.New("attribute unsupported")

// ErrNoValue is returned for queries against an element with FailAll set.
var ErrNoValue = errors.New("no value")

// Element is a synthetic UI element.
type Element struct {
	ID uint64

	// Attrs holds attribute values by name. Names lists them in the order
	// AttributeNames reports; when nil, sorted Attrs keys are used.
	Attrs map[string]any
	Names []string

	// Children is returned for AXChildren.
	Children []*Element

	PID      int
	WindowID uint32

	FailNames    bool            // AttributeNames fails
	FailValues   map[string]bool // AttributeValue fails for these names
	FailPID      bool
	FailWindowID bool
	FailAll      bool // every query fails, like an element for a dead pid
}

// Hash implements axtree.Element.
func (e *Element) Hash() uint64 { return e.ID }

// Equal implements axtree.Element by identity.
func (e *Element) Equal(other axtree.Element) bool {
	o, ok := other.(*Element)
	return ok && o == e
}

// NewElement returns an element with the given role.
func NewElement(id uint64, role string) *Element {
	return &Element{ID: id, Attrs: map[string]any{axtree.AttrRole: role}}
}

// AddChild appends c to e's children and returns e.
func (e *Element) AddChild(c *Element) *Element {
	e.Children = append(e.Children, c)
	return e
}

// Chain builds a linear tree depth levels deep and returns its root.
func Chain(depth int) *Element {
	root := NewElement(1, "AXWindow")
	cur := root
	for i := 1; i < depth; i++ {
		next := NewElement(uint64(i+1), "AXGroup")
		cur.AddChild(next)
		cur = next
	}
	return root
}

// Provider is an in-memory axtree.Provider.
type Provider struct {
	Focused    *Element
	FocusedErr error

	// Apps maps pids to application elements.
	Apps map[int]*Element

	Windows    []map[string]any
	WindowsErr error

	mu         sync.Mutex
	namesCalls map[*Element]int
}

// NamesCalls reports how often AttributeNames was called for e.
func (p *Provider) NamesCalls(e *Element) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.namesCalls[e]
}

func (p *Provider) FocusedElement() (axtree.Element, error) {
	if p.FocusedErr != nil {
		return nil, p.FocusedErr
	}
	if p.Focused == nil {
		return nil, ErrNoValue
	}
	return p.Focused, nil
}

func (p *Provider) AttributeNames(ae axtree.Element) ([]string, error) {
	e := ae.(*Element)
	p.mu.Lock()
	if p.namesCalls == nil {
		p.namesCalls = make(map[*Element]int)
	}
	p.namesCalls[e]++
	p.mu.Unlock()

	if e.FailNames || e.FailAll {
		return nil, ErrNoValue
	}
	names := e.Names
	if names == nil {
		for name := range e.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(e.Children) > 0 {
			names = append(names, axtree.AttrChildren)
		}
	}
	return names, nil
}

func (p *Provider) AttributeValue(ae axtree.Element, name string) (any, error) {
	e := ae.(*Element)
	if e.FailAll || e.FailValues[name] {
		return nil, ErrNoValue
	}
	if name == axtree.AttrChildren {
		if _, ok := e.Attrs[name]; !ok {
			children := make([]any, len(e.Children))
			for i, c := range e.Children {
				children[i] = c
			}
			return children, nil
		}
	}
	v, ok := e.Attrs[name]
	if !ok {
		return nil, ErrUnsupported
	}
	return v, nil
}

func (p *Provider) PID(ae axtree.Element) (int, error) {
	e := ae.(*Element)
	if e.FailPID || e.FailAll {
		return 0, ErrNoValue
	}
	return e.PID, nil
}

func (p *Provider) WindowID(ae axtree.Element) (uint32, error) {
	e := ae.(*Element)
	if e.FailWindowID || e.FailAll {
		return 0, ErrNoValue
	}
	return e.WindowID, nil
}

// Application returns the registered app element, or an element whose
// queries all fail, as the OS does for a pid with no application.
func (p *Provider) Application(pid int) axtree.Element {
	if app, ok := p.Apps[pid]; ok {
		return app
	}
	return &Element{PID: pid, FailAll: true}
}

func (p *Provider) OnScreenWindows() ([]map[string]any, error) {
	if p.WindowsErr != nil {
		return nil, p.WindowsErr
	}
	return p.Windows, nil
}

// Recorder is an axtree.Observer that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	Events []axtree.Event
}

// Observe implements axtree.Observer.
func (r *Recorder) Observe(e axtree.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k axtree.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
