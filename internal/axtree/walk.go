package axtree

import "fmt"

// Walker builds attribute trees from element handles.
//
// A walk is synchronous and keeps no state between calls, so one Walker may
// be shared by concurrent callers as long as its Provider allows it.
type Walker struct {
	provider   Provider
	coercer    *Coercer
	observer   Observer
	cycleGuard bool
}

// NewWalker returns a Walker reading through p.
func NewWalker(p Provider, opts ...Option) *Walker {
	s := newSettings(opts)
	return &Walker{
		provider:   p,
		coercer:    &Coercer{provider: p, observer: s.observer},
		observer:   s.observer,
		cycleGuard: s.cycleGuard,
	}
}

// Build returns the attribute tree rooted at e. Failures to read names or
// values shrink the result; they never abort it.
func (w *Walker) Build(e Element) *Node {
	var path *visitSet
	if w.cycleGuard {
		path = newVisitSet()
	}
	return w.build(e, path, 0)
}

func (w *Walker) build(e Element, path *visitSet, depth int) *Node {
	node := NewNode()
	if path != nil {
		path.push(e)
		defer path.pop(e)
	}

	names, err := w.provider.AttributeNames(e)
	if err != nil {
		w.observer.Observe(Event{Kind: EventAttributeNamesFailed, Depth: depth, Err: err})
	}
	for _, name := range names {
		v, err := w.provider.AttributeValue(e, name)
		if err != nil {
			w.observer.Observe(Event{Kind: EventAttributeValueFailed, Attribute: name, Depth: depth, Err: err})
			continue
		}
		node.Set(name, w.coercer.Coerce(v))
	}

	for _, child := range w.children(e, depth) {
		if path != nil && path.contains(child) {
			w.observer.Observe(Event{Kind: EventCycleCut, Attribute: AttrChildren, Depth: depth + 1})
			continue
		}
		node.Children = append(node.Children, w.build(child, path, depth+1))
	}
	return node
}

// children reads AXChildren. Anything but a list made only of element
// handles yields no children.
func (w *Walker) children(e Element, depth int) []Element {
	v, err := w.provider.AttributeValue(e, AttrChildren)
	if err != nil || v == nil {
		return nil
	}
	list, ok := elementList(v)
	if !ok {
		w.observer.Observe(Event{
			Kind:      EventChildrenUnreadable,
			Attribute: AttrChildren,
			Depth:     depth,
			Detail:    fmt.Sprintf("children is %T", v),
		})
		return nil
	}
	return list
}

// elementList accepts []Element, or []any holding only elements.
func elementList(v any) ([]Element, bool) {
	switch list := v.(type) {
	case []Element:
		return list, true
	case []any:
		out := make([]Element, 0, len(list))
		for _, item := range list {
			e, ok := item.(Element)
			if !ok {
				return nil, false
			}
			out = append(out, e)
		}
		return out, true
	}
	return nil, false
}

// visitSet holds the elements on the current root-to-node path, bucketed by
// hash and compared with Equal.
type visitSet struct {
	buckets map[uint64][]Element
}

func newVisitSet() *visitSet {
	return &visitSet{buckets: make(map[uint64][]Element)}
}

func (s *visitSet) push(e Element) {
	h := e.Hash()
	s.buckets[h] = append(s.buckets[h], e)
}

func (s *visitSet) pop(e Element) {
	h := e.Hash()
	bucket := s.buckets[h]
	for i := len(bucket) - 1; i >= 0; i-- {
		if bucket[i].Equal(e) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(s.buckets, h)
		return
	}
	s.buckets[h] = bucket
}

func (s *visitSet) contains(e Element) bool {
	for _, seen := range s.buckets[e.Hash()] {
		if seen.Equal(e) {
			return true
		}
	}
	return false
}
