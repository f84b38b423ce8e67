package axtree_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/mj1618/macpilot/internal/axtree"
	"github.com/mj1618/macpilot/internal/axtree/axtreetest"
)

type customValue struct{ n int }

type describedValue struct{}

func (describedValue) String() string { return "<AXTextMarker 0x1>" }

// namedElement is an element whose provider can describe it.
type namedElement struct{ *axtreetest.Element }

func (namedElement) String() string { return "<AXUIElement 0x2a> {pid=501}" }

func TestCoerce_Primitives(t *testing.T) {
	c := axtree.NewCoercer(&axtreetest.Provider{})

	tests := []struct {
		name string
		in   any
		want axtree.AttributeValue
	}{
		{"string", "Save", axtree.Text("Save")},
		{"empty string", "", axtree.Text("")},
		{"true", true, axtree.Boolean(true)},
		{"false", false, axtree.Boolean(false)},
		{"int", 42, axtree.Integer(42)},
		{"int64", int64(-7), axtree.Integer(-7)},
		{"uint32", uint32(9), axtree.Integer(9)},
		{"float truncates", 3.9, axtree.Integer(3)},
		{"negative float truncates", -2.5, axtree.Integer(-2)},
	}
	for _, tt := range tests {
		got := c.Coerce(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Coerce(%v) = %#v, want %#v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCoerce_NilIsAbsent(t *testing.T) {
	c := axtree.NewCoercer(&axtreetest.Provider{})
	if got := c.Coerce(nil); got != nil {
		t.Errorf("Coerce(nil) = %#v, want nil", got)
	}
}

func TestCoerce_ElementSummarizedByRole(t *testing.T) {
	p := &axtreetest.Provider{}
	ref := axtreetest.NewElement(2, "AXButton")
	ref.Attrs["AXTitle"] = "OK"
	ref.AddChild(axtreetest.NewElement(3, "AXImage"))

	got := axtree.NewCoercer(p).Coerce(ref)
	want := axtree.ElementSummary{Role: "AXButton"}
	if got != want {
		t.Errorf("got %#v, want %#v", got, want)
	}
	if n := p.NamesCalls(ref); n != 0 {
		t.Errorf("referenced element was walked: %d AttributeNames calls", n)
	}
}

func TestCoerce_ElementRoleFailure(t *testing.T) {
	rec := &axtreetest.Recorder{}
	c := axtree.NewCoercer(&axtreetest.Provider{}, axtree.WithObserver(rec))

	noRole := &axtreetest.Element{ID: 5, Attrs: map[string]any{}}
	if got := c.Coerce(noRole); got != (axtree.ElementSummary{Role: axtree.UnknownRole}) {
		t.Errorf("missing role: got %#v", got)
	}

	badRole := &axtreetest.Element{ID: 6, Attrs: map[string]any{axtree.AttrRole: 12}}
	if got := c.Coerce(badRole); got != (axtree.ElementSummary{Role: axtree.UnknownRole}) {
		t.Errorf("non-string role: got %#v", got)
	}

	if n := rec.Count(axtree.EventRoleLookupFailed); n != 2 {
		t.Errorf("role-lookup-failed events = %d, want 2", n)
	}
}

func TestCoerce_Arrays(t *testing.T) {
	p := &axtreetest.Provider{}
	c := axtree.NewCoercer(p)
	a := axtreetest.NewElement(1, "AXRow")
	b := axtreetest.NewElement(2, "AXRow")

	tests := []struct {
		name string
		in   any
		want axtree.AttributeValue
	}{
		{"empty", []any{}, axtree.ValueArray{Items: []any{}}},
		{"empty elements", []axtree.Element{}, axtree.ValueArray{Items: []any{}}},
		{"elements", []any{a, b}, axtree.CountedArray{Count: 2}},
		{"typed elements", []axtree.Element{a, b, a}, axtree.CountedArray{Count: 3}},
		{"heterogeneous after element", []any{a, "x", 4}, axtree.CountedArray{Count: 3}},
		{
			"values",
			[]any{"AXPress", 3, 2.5, true, customValue{1}},
			axtree.ValueArray{Items: []any{"AXPress", int64(3), 2.5, "true", "{1}"}},
		},
	}
	for _, tt := range tests {
		got := c.Coerce(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %#v, want %#v", tt.name, got, tt.want)
		}
	}
	if p.NamesCalls(a) != 0 || p.NamesCalls(b) != 0 {
		t.Error("array members must not be walked")
	}
}

func TestCoerce_ElementAfterValueIsStringified(t *testing.T) {
	p := &axtreetest.Provider{}
	ref := axtreetest.NewElement(1, "AXRow")

	got, ok := axtree.NewCoercer(p).Coerce([]any{"x", ref}).(axtree.ValueArray)
	if !ok {
		t.Fatalf("expected ValueArray, got %T", got)
	}
	if len(got.Items) != 2 || got.Items[0] != "x" {
		t.Fatalf("got %#v", got.Items)
	}
	if got.Items[1] != "<AXRow>" {
		t.Errorf("element item = %#v, want %q", got.Items[1], "<AXRow>")
	}
	if p.NamesCalls(ref) != 0 {
		t.Error("element item must not be walked")
	}
}

func TestCoerce_ElementItemsNeverPrintGoValues(t *testing.T) {
	p := &axtreetest.Provider{}
	named := namedElement{axtreetest.NewElement(4, "AXCell")}
	broken := &axtreetest.Element{ID: 5, FailAll: true}

	got, ok := axtree.NewCoercer(p).Coerce([]any{1, named, broken}).(axtree.ValueArray)
	if !ok {
		t.Fatalf("expected ValueArray, got %T", got)
	}
	want := []any{int64(1), "<AXUIElement 0x2a> {pid=501}", "<unknown>"}
	if !reflect.DeepEqual(got.Items, want) {
		t.Fatalf("got %#v, want %#v", got.Items, want)
	}
	for _, item := range got.Items[1:] {
		s := item.(string)
		if strings.Contains(s, "&{") || strings.Contains(s, "0xc") {
			t.Errorf("item %q looks like a Go value dump", s)
		}
	}
}

func TestCoerce_OutOfRangeNumbersAreOpaque(t *testing.T) {
	rec := &axtreetest.Recorder{}
	c := axtree.NewCoercer(&axtreetest.Provider{}, axtree.WithObserver(rec))

	tests := []struct {
		name string
		in   any
		want axtree.AttributeValue
	}{
		{"max uint64", uint64(math.MaxUint64), axtree.Opaque("18446744073709551615")},
		{"huge float", 1e300, axtree.Opaque("1e+300")},
		{"nan", math.NaN(), axtree.Opaque("NaN")},
		{"max int64 as uint64", uint64(math.MaxInt64), axtree.Integer(math.MaxInt64)},
	}
	for _, tt := range tests {
		if got := c.Coerce(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %#v, want %#v", tt.name, got, tt.want)
		}
	}
	if n := rec.Count(axtree.EventOpaqueValue); n != 4 {
		t.Errorf("opaque-value events = %d, want 4", n)
	}

	got := c.Coerce([]any{"a", uint64(math.MaxUint64)}).(axtree.ValueArray)
	if got.Items[1] != "18446744073709551615" {
		t.Errorf("array item = %#v", got.Items[1])
	}
}

func TestCoerce_Geometry(t *testing.T) {
	c := axtree.NewCoercer(&axtreetest.Provider{})

	tests := []struct {
		in   axtree.Geometry
		want axtree.AttributeValue
	}{
		{axtree.Geometry{Kind: axtree.GeometryPoint, X: 10, Y: 20.5}, axtree.Point{X: 10, Y: 20.5}},
		{axtree.Geometry{Kind: axtree.GeometrySize, Width: 300, Height: 200}, axtree.Size{Width: 300, Height: 200}},
		{
			axtree.Geometry{Kind: axtree.GeometryRect, X: 1, Y: 2, Width: 3, Height: 4},
			axtree.Rect{X: 1, Y: 2, Width: 3, Height: 4},
		},
		{
			axtree.Geometry{Kind: axtree.GeometryRange, Location: 3, Length: 5},
			axtree.Opaque("range{location:3, length:5}"),
		},
		{
			axtree.Geometry{Kind: axtree.GeometryRange, Description: "<AXValue> {location=0 length=2}"},
			axtree.Opaque("<AXValue> {location=0 length=2}"),
		},
	}
	for _, tt := range tests {
		if got := c.Coerce(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Coerce(%v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
	g := &axtree.Geometry{Kind: axtree.GeometryPoint, X: 1, Y: 1}
	if got := c.Coerce(g); got != (axtree.Point{X: 1, Y: 1}) {
		t.Errorf("pointer geometry: got %#v", got)
	}
}

func TestCoerce_OpaqueFallback(t *testing.T) {
	rec := &axtreetest.Recorder{}
	c := axtree.NewCoercer(&axtreetest.Provider{}, axtree.WithObserver(rec))

	if got := c.Coerce(describedValue{}); got != axtree.Opaque("<AXTextMarker 0x1>") {
		t.Errorf("stringer: got %#v", got)
	}
	if got := c.Coerce(customValue{7}); got != axtree.Opaque("{7}") {
		t.Errorf("struct: got %#v", got)
	}
	if got := c.Coerce(map[string]any{"b": "x", "a": 1}); got != axtree.Opaque("{ a = 1; b = x; }") {
		t.Errorf("map: got %#v", got)
	}
	if n := rec.Count(axtree.EventOpaqueValue); n != 3 {
		t.Errorf("opaque-value events = %d, want 3", n)
	}
}
