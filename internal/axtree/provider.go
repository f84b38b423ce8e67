// Package axtree serializes live accessibility element graphs into canonical,
// JSON-compatible attribute trees.
//
// The package never talks to the OS directly. Everything it knows about the
// UI comes from a Provider, which the darwin platform package implements over
// ApplicationServices and the axtreetest package implements in memory.
package axtree

import "fmt"

// Accessibility attribute names queried by the walker and resolver.
const (
	AttrRole     = "AXRole"
	AttrTitle    = "AXTitle"
	AttrChildren = "AXChildren"
	AttrWindow   = "AXWindow"
	AttrWindows  = "AXWindows"
)

// ChildrenKey is the node key reserved for recursively walked children.
const ChildrenKey = "children"

// Element is an opaque handle to one native UI element.
//
// Hash and Equal give the walker an identity for the handle so it can detect
// a child relation that loops back onto the current path. Equal elements must
// have equal hashes.
type Element interface {
	Hash() uint64
	Equal(other Element) bool
}

// Provider is the accessibility capability the serializer consumes.
//
// AttributeValue returns native values as Go values of these kinds: string,
// bool, any integer or float type, Element, []any or []Element, Geometry.
// Anything else is treated as opaque and stringified.
type Provider interface {
	// FocusedElement returns the system-wide focused UI element.
	FocusedElement() (Element, error)

	// AttributeNames lists the attributes the element supports.
	AttributeNames(e Element) ([]string, error)

	// AttributeValue reads one named attribute of the element.
	AttributeValue(e Element, name string) (any, error)

	// PID returns the process owning the element.
	PID(e Element) (int, error)

	// WindowID returns the window server id of a window element.
	WindowID(e Element) (uint32, error)

	// Application returns the application element for a process id.
	Application(pid int) Element

	// OnScreenWindows enumerates on-screen, non-desktop windows as raw
	// metadata dictionaries.
	OnScreenWindows() ([]map[string]any, error)
}

// GeometryKind identifies the value wrapped by a Geometry.
// The numbering follows the AXValueType constants.
type GeometryKind int

const (
	GeometryPoint GeometryKind = 1
	GeometrySize  GeometryKind = 2
	GeometryRect  GeometryKind = 3
	GeometryRange GeometryKind = 4
)

// Geometry is a wrapped geometry value (AXValue). Which fields are meaningful
// depends on Kind; Location and Length are used by ranges only.
type Geometry struct {
	Kind          GeometryKind
	X, Y          float64
	Width, Height float64
	Location      int64
	Length        int64

	// Description is the provider's own descriptive form, if it has one.
	Description string
}

// String returns the provider description, or a compact rendering of the
// wrapped value.
func (g Geometry) String() string {
	if g.Description != "" {
		return g.Description
	}
	switch g.Kind {
	case GeometryPoint:
		return fmt.Sprintf("point{x:%g, y:%g}", g.X, g.Y)
	case GeometrySize:
		return fmt.Sprintf("size{w:%g, h:%g}", g.Width, g.Height)
	case GeometryRect:
		return fmt.Sprintf("rect{x:%g, y:%g, w:%g, h:%g}", g.X, g.Y, g.Width, g.Height)
	case GeometryRange:
		return fmt.Sprintf("range{location:%d, length:%d}", g.Location, g.Length)
	default:
		return fmt.Sprintf("geometry{kind:%d}", int(g.Kind))
	}
}
