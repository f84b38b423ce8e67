package axtree

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// UnknownRole is reported for element references whose role cannot be read.
const UnknownRole = "unknown"

// Coercer converts native attribute values into AttributeValues.
type Coercer struct {
	provider Provider
	observer Observer
}

// NewCoercer returns a Coercer that resolves element roles through p.
func NewCoercer(p Provider, opts ...Option) *Coercer {
	s := newSettings(opts)
	return &Coercer{provider: p, observer: s.observer}
}

// Coerce classifies v by its runtime kind and converts it. It returns nil only
// when v itself is nil. It never fails: unrecognized kinds become Opaque and
// unreadable element references become ElementSummary{Role: "unknown"}.
func (c *Coercer) Coerce(v any) AttributeValue {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case string:
		return Text(x)
	case bool:
		return Boolean(x)
	}
	if n, ok := integerOf(v); ok {
		return Integer(n)
	}
	switch x := v.(type) {
	case Element:
		return ElementSummary{Role: c.role(x)}
	case []Element:
		if len(x) == 0 {
			return ValueArray{Items: []any{}}
		}
		return CountedArray{Count: uint(len(x))}
	case []any:
		return c.coerceArray(x)
	case Geometry:
		return coerceGeometry(x)
	case *Geometry:
		if x == nil {
			return nil
		}
		return coerceGeometry(*x)
	}
	c.observer.Observe(Event{Kind: EventOpaqueValue, Detail: fmt.Sprintf("%T", v)})
	return Opaque(describe(v))
}

func (c *Coercer) role(e Element) string {
	v, err := c.provider.AttributeValue(e, AttrRole)
	if err != nil {
		c.observer.Observe(Event{Kind: EventRoleLookupFailed, Attribute: AttrRole, Err: err})
		return UnknownRole
	}
	role, ok := v.(string)
	if !ok {
		c.observer.Observe(Event{Kind: EventRoleLookupFailed, Attribute: AttrRole, Detail: fmt.Sprintf("role is %T", v)})
		return UnknownRole
	}
	return role
}

// coerceArray inspects only the first item: an array that starts with an
// element is counted, never descended. Later element items are described.
func (c *Coercer) coerceArray(items []any) AttributeValue {
	if len(items) == 0 {
		return ValueArray{Items: []any{}}
	}
	if _, ok := items[0].(Element); ok {
		return CountedArray{Count: uint(len(items))}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case float32:
			out = append(out, float64(x))
		case float64:
			out = append(out, x)
		case Element:
			out = append(out, c.describeElement(x))
		default:
			if n, ok := integerOf(item); ok {
				out = append(out, n)
				continue
			}
			out = append(out, describe(item))
		}
	}
	return ValueArray{Items: out}
}

func coerceGeometry(g Geometry) AttributeValue {
	switch g.Kind {
	case GeometryPoint:
		return Point{X: g.X, Y: g.Y}
	case GeometrySize:
		return Size{Width: g.Width, Height: g.Height}
	case GeometryRect:
		return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
	default:
		return Opaque(g.String())
	}
}

// describeElement uses the provider's description of e when it has one, and
// its role otherwise. Go's default formatting would print addresses.
func (c *Coercer) describeElement(e Element) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return "<" + c.role(e) + ">"
}

// floatInteger rejects NaN and values outside the int64 range.
func floatInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// integerOf is the single integer accessor for numeric kinds.
// Floats truncate toward zero. Values that do not fit an int64 are not
// integers here; they fall through to Opaque with their decimal text.
func integerOf(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return floatInteger(float64(n))
	case float64:
		return floatInteger(n)
	}
	return 0, false
}

func describe(v any) string {
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	case map[string]any:
		return describeDictionary(x)
	}
	return fmt.Sprint(v)
}

// describeDictionary renders keys in sorted order, in the same
// "{ key = value; }" shape CoreFoundation uses for dictionaries.
func describeDictionary(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("{")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s = %s;", k, describe(m[k]))
	}
	b.WriteString(" }")
	return b.String()
}
