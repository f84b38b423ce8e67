//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework CoreGraphics
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>

// Private but stable since 10.5; maps a window element to its CGWindowID.
extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *identifier);

enum {
    MP_KIND_OTHER = 0,
    MP_KIND_STRING,
    MP_KIND_BOOLEAN,
    MP_KIND_NUMBER,
    MP_KIND_ELEMENT,
    MP_KIND_ARRAY,
    MP_KIND_AXVALUE,
    MP_KIND_DICTIONARY,
};

typedef struct {
    int type;
    double x, y, width, height;
    long long location, length;
} mp_geometry;

static CFTypeRef mp_system_wide(void) {
    return (CFTypeRef)AXUIElementCreateSystemWide();
}

static CFTypeRef mp_application(int pid) {
    return (CFTypeRef)AXUIElementCreateApplication((pid_t)pid);
}

static int mp_copy_attribute(CFTypeRef el, const char *name, CFTypeRef *out) {
    *out = NULL;
    CFStringRef attr = CFStringCreateWithCString(kCFAllocatorDefault, name, kCFStringEncodingUTF8);
    if (!attr) return (int)kAXErrorIllegalArgument;
    AXError err = AXUIElementCopyAttributeValue((AXUIElementRef)el, attr, out);
    CFRelease(attr);
    return (int)err;
}

static int mp_copy_attribute_names(CFTypeRef el, CFTypeRef *out) {
    CFArrayRef names = NULL;
    AXError err = AXUIElementCopyAttributeNames((AXUIElementRef)el, &names);
    *out = (CFTypeRef)names;
    return (int)err;
}

static int mp_pid(CFTypeRef el, int *pid) {
    pid_t p = 0;
    AXError err = AXUIElementGetPid((AXUIElementRef)el, &p);
    *pid = (int)p;
    return (int)err;
}

static int mp_window_id(CFTypeRef el, uint32_t *wid) {
    CGWindowID id = 0;
    AXError err = _AXUIElementGetWindow((AXUIElementRef)el, &id);
    *wid = (uint32_t)id;
    return (int)err;
}

static CFTypeRef mp_window_list(void) {
    return (CFTypeRef)CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
        kCGNullWindowID);
}

static int mp_kind(CFTypeRef v) {
    CFTypeID t = CFGetTypeID(v);
    if (t == CFStringGetTypeID()) return MP_KIND_STRING;
    if (t == CFBooleanGetTypeID()) return MP_KIND_BOOLEAN;
    if (t == CFNumberGetTypeID()) return MP_KIND_NUMBER;
    if (t == AXUIElementGetTypeID()) return MP_KIND_ELEMENT;
    if (t == CFArrayGetTypeID()) return MP_KIND_ARRAY;
    if (t == AXValueGetTypeID()) return MP_KIND_AXVALUE;
    if (t == CFDictionaryGetTypeID()) return MP_KIND_DICTIONARY;
    return MP_KIND_OTHER;
}

// Caller frees the result.
static char *mp_string(CFTypeRef v) {
    CFStringRef s = (CFStringRef)v;
    CFIndex max = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(max);
    if (!buf) return NULL;
    if (!CFStringGetCString(s, buf, max, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

// Caller frees the result.
static char *mp_describe(CFTypeRef v) {
    CFStringRef d = CFCopyDescription(v);
    if (!d) return NULL;
    char *s = mp_string((CFTypeRef)d);
    CFRelease(d);
    return s;
}

static int mp_bool(CFTypeRef v) {
    return CFBooleanGetValue((CFBooleanRef)v) ? 1 : 0;
}

static int mp_number_is_float(CFTypeRef v) {
    return CFNumberIsFloatType((CFNumberRef)v) ? 1 : 0;
}

static long long mp_number_int(CFTypeRef v) {
    long long n = 0;
    CFNumberGetValue((CFNumberRef)v, kCFNumberLongLongType, &n);
    return n;
}

static double mp_number_float(CFTypeRef v) {
    double d = 0;
    CFNumberGetValue((CFNumberRef)v, kCFNumberDoubleType, &d);
    return d;
}

static long mp_array_count(CFTypeRef v) {
    return (long)CFArrayGetCount((CFArrayRef)v);
}

static CFTypeRef mp_array_item(CFTypeRef v, long i) {
    return (CFTypeRef)CFArrayGetValueAtIndex((CFArrayRef)v, (CFIndex)i);
}

static long mp_dict_count(CFTypeRef v) {
    return (long)CFDictionaryGetCount((CFDictionaryRef)v);
}

static void mp_dict_entries(CFTypeRef v, CFTypeRef *keys, CFTypeRef *values) {
    CFDictionaryGetKeysAndValues((CFDictionaryRef)v, (const void **)keys, (const void **)values);
}

static void mp_axvalue(CFTypeRef v, mp_geometry *g) {
    AXValueRef val = (AXValueRef)v;
    AXValueType type = AXValueGetType(val);
    g->type = (int)type;
    switch (type) {
    case kAXValueTypeCGPoint: {
        CGPoint p;
        if (AXValueGetValue(val, type, &p)) { g->x = p.x; g->y = p.y; }
        break;
    }
    case kAXValueTypeCGSize: {
        CGSize s;
        if (AXValueGetValue(val, type, &s)) { g->width = s.width; g->height = s.height; }
        break;
    }
    case kAXValueTypeCGRect: {
        CGRect r;
        if (AXValueGetValue(val, type, &r)) {
            g->x = r.origin.x; g->y = r.origin.y;
            g->width = r.size.width; g->height = r.size.height;
        }
        break;
    }
    case kAXValueTypeCFRange: {
        CFRange r;
        if (AXValueGetValue(val, type, &r)) { g->location = r.location; g->length = r.length; }
        break;
    }
    default:
        break;
    }
}

static unsigned long long mp_hash(CFTypeRef v) {
    return (unsigned long long)CFHash(v);
}

static int mp_equal(CFTypeRef a, CFTypeRef b) {
    return CFEqual(a, b) ? 1 : 0;
}

static void mp_retain(CFTypeRef v) {
    if (v) CFRetain(v);
}

static void mp_release(CFTypeRef v) {
    if (v) CFRelease(v);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/mj1618/macpilot/internal/axtree"
)

const focusedElementAttribute = "AXFocusedUIElement"

// axElement owns one retained AXUIElementRef. The finalizer releases it, so
// every method that hands ref to C keeps e alive until the call returns.
type axElement struct {
	ref C.CFTypeRef
}

// wrapElement takes ownership of ref, which must already be retained.
func wrapElement(ref C.CFTypeRef) *axElement {
	e := &axElement{ref: ref}
	runtime.SetFinalizer(e, func(e *axElement) { C.mp_release(e.ref) })
	return e
}

func (e *axElement) Hash() uint64 {
	defer runtime.KeepAlive(e)
	return uint64(C.mp_hash(e.ref))
}

func (e *axElement) Equal(other axtree.Element) bool {
	o, ok := other.(*axElement)
	if !ok {
		return false
	}
	defer runtime.KeepAlive(o)
	defer runtime.KeepAlive(e)
	return C.mp_equal(e.ref, o.ref) != 0
}

// String returns the CoreFoundation description of the element.
func (e *axElement) String() string {
	defer runtime.KeepAlive(e)
	return describe(e.ref)
}

// Accessibility implements axtree.Provider over the macOS AX API.
type Accessibility struct{}

// NewAccessibility returns the macOS accessibility provider.
func NewAccessibility() *Accessibility {
	return &Accessibility{}
}

func (a *Accessibility) FocusedElement() (axtree.Element, error) {
	sys := C.mp_system_wide()
	if sys == 0 {
		return nil, fmt.Errorf("create system-wide element: %w", axErrFailure)
	}
	defer C.mp_release(sys)

	v, err := copyAttribute(sys, focusedElementAttribute)
	if err != nil {
		return nil, err
	}
	if C.mp_kind(v) != C.MP_KIND_ELEMENT {
		C.mp_release(v)
		return nil, fmt.Errorf("%s is not an element", focusedElementAttribute)
	}
	return wrapElement(v), nil
}

func (a *Accessibility) AttributeNames(e axtree.Element) ([]string, error) {
	el, err := native(e)
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(el)
	var names C.CFTypeRef
	if code := C.mp_copy_attribute_names(el.ref, &names); code != 0 {
		return nil, AXError(code)
	}
	if names == 0 {
		return nil, nil
	}
	defer C.mp_release(names)

	n := int(C.mp_array_count(names))
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item := C.mp_array_item(names, C.long(i))
		if C.mp_kind(item) == C.MP_KIND_STRING {
			out = append(out, goString(item))
		}
	}
	return out, nil
}

func (a *Accessibility) AttributeValue(e axtree.Element, name string) (any, error) {
	el, err := native(e)
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(el)
	v, err := copyAttribute(el.ref, name)
	if err != nil {
		return nil, err
	}
	defer C.mp_release(v)
	return convert(v, false), nil
}

func (a *Accessibility) PID(e axtree.Element) (int, error) {
	el, err := native(e)
	if err != nil {
		return 0, err
	}
	defer runtime.KeepAlive(el)
	var pid C.int
	if code := C.mp_pid(el.ref, &pid); code != 0 {
		return 0, AXError(code)
	}
	return int(pid), nil
}

func (a *Accessibility) WindowID(e axtree.Element) (uint32, error) {
	el, err := native(e)
	if err != nil {
		return 0, err
	}
	defer runtime.KeepAlive(el)
	var id C.uint32_t
	if code := C.mp_window_id(el.ref, &id); code != 0 {
		return 0, AXError(code)
	}
	return uint32(id), nil
}

func (a *Accessibility) Application(pid int) axtree.Element {
	return wrapElement(C.mp_application(C.int(pid)))
}

func (a *Accessibility) OnScreenWindows() ([]map[string]any, error) {
	list := C.mp_window_list()
	if list == 0 {
		return nil, fmt.Errorf("failed to enumerate windows")
	}
	defer C.mp_release(list)

	n := int(C.mp_array_count(list))
	windows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		item := C.mp_array_item(list, C.long(i))
		if C.mp_kind(item) != C.MP_KIND_DICTIONARY {
			continue
		}
		windows = append(windows, dictionary(item))
	}
	return windows, nil
}

func native(e axtree.Element) (*axElement, error) {
	el, ok := e.(*axElement)
	if !ok || el == nil || el.ref == 0 {
		return nil, axErrIllegalArgument
	}
	return el, nil
}

// copyAttribute returns a retained value the caller must release.
func copyAttribute(ref C.CFTypeRef, name string) (C.CFTypeRef, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var v C.CFTypeRef
	if code := C.mp_copy_attribute(ref, cname, &v); code != 0 {
		return 0, AXError(code)
	}
	if v == 0 {
		return 0, axErrNoValue
	}
	return v, nil
}

// convert maps a borrowed CF value onto the Go kinds axtree.Provider
// documents. Elements are retained and owned by the returned handle.
// Dictionaries become maps only when maps is set (window list metadata);
// attribute values keep their CoreFoundation description.
func convert(v C.CFTypeRef, maps bool) any {
	if v == 0 {
		return nil
	}
	switch C.mp_kind(v) {
	case C.MP_KIND_STRING:
		return goString(v)
	case C.MP_KIND_BOOLEAN:
		return C.mp_bool(v) != 0
	case C.MP_KIND_NUMBER:
		if C.mp_number_is_float(v) != 0 {
			return float64(C.mp_number_float(v))
		}
		return int64(C.mp_number_int(v))
	case C.MP_KIND_ELEMENT:
		C.mp_retain(v)
		return wrapElement(v)
	case C.MP_KIND_ARRAY:
		n := int(C.mp_array_count(v))
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, convert(C.mp_array_item(v, C.long(i)), maps))
		}
		return items
	case C.MP_KIND_AXVALUE:
		var g C.mp_geometry
		C.mp_axvalue(v, &g)
		return geometry(g, describe(v))
	case C.MP_KIND_DICTIONARY:
		if maps {
			return dictionary(v)
		}
	}
	return opaqueValue(describe(v))
}

func geometry(g C.mp_geometry, description string) axtree.Geometry {
	out := axtree.Geometry{
		Kind:     axtree.GeometryKind(g._type),
		X:        float64(g.x),
		Y:        float64(g.y),
		Width:    float64(g.width),
		Height:   float64(g.height),
		Location: int64(g.location),
		Length:   int64(g.length),
	}
	switch out.Kind {
	case axtree.GeometryPoint, axtree.GeometrySize, axtree.GeometryRect:
	default:
		out.Description = description
	}
	return out
}

// dictionary converts a CFDictionary with string keys. Entries with other key
// types are skipped.
func dictionary(v C.CFTypeRef) map[string]any {
	n := int(C.mp_dict_count(v))
	out := make(map[string]any, n)
	if n == 0 {
		return out
	}
	keys := make([]C.CFTypeRef, n)
	values := make([]C.CFTypeRef, n)
	C.mp_dict_entries(v, &keys[0], &values[0])
	for i := 0; i < n; i++ {
		if C.mp_kind(keys[i]) != C.MP_KIND_STRING {
			continue
		}
		out[goString(keys[i])] = convert(values[i], true)
	}
	return out
}

func goString(v C.CFTypeRef) string {
	s := C.mp_string(v)
	if s == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s)
}

func describe(v C.CFTypeRef) string {
	s := C.mp_describe(v)
	if s == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s)
}
