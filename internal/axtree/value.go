package axtree

// AttributeValue is the closed set of values an attribute can serialize to.
// The unexported method seals the union to the types in this file.
type AttributeValue interface {
	jsonValue() any
}

// Text is a string attribute.
type Text string

// Boolean is a boolean attribute.
type Boolean bool

// Integer is a numeric attribute read through the integer accessor.
type Integer int64

// ElementSummary stands in for a referenced element: only its role is kept.
type ElementSummary struct {
	Role string
}

// CountedArray is an array of element references reduced to its length.
type CountedArray struct {
	Count uint
}

// ValueArray is an array of non-element items. Items are strings, int64 or
// float64 values.
type ValueArray struct {
	Items []any
}

// Point is a wrapped CGPoint.
type Point struct {
	X, Y float64
}

// Size is a wrapped CGSize.
type Size struct {
	Width, Height float64
}

// Rect is a wrapped CGRect.
type Rect struct {
	X, Y, Width, Height float64
}

// Opaque is the descriptive form of any value kind not otherwise recognized.
type Opaque string

func (v Text) jsonValue() any    { return string(v) }
func (v Boolean) jsonValue() any { return bool(v) }
func (v Integer) jsonValue() any { return int64(v) }
func (v Opaque) jsonValue() any  { return string(v) }

func (v ElementSummary) jsonValue() any {
	return map[string]any{"role": v.Role}
}

func (v CountedArray) jsonValue() any {
	return map[string]any{"count": v.Count}
}

func (v ValueArray) jsonValue() any {
	items := make([]any, len(v.Items))
	copy(items, v.Items)
	return items
}

func (v Point) jsonValue() any {
	return map[string]any{"x": v.X, "y": v.Y}
}

func (v Size) jsonValue() any {
	return map[string]any{"width": v.Width, "height": v.Height}
}

func (v Rect) jsonValue() any {
	return map[string]any{"x": v.X, "y": v.Y, "width": v.Width, "height": v.Height}
}

// JSONValue returns the plain Go value (string, bool, number, map or slice)
// that v serializes to.
func JSONValue(v AttributeValue) any {
	if v == nil {
		return nil
	}
	return v.jsonValue()
}
