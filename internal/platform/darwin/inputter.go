//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>

static int mp_post_mouse(CGEventType type, double x, double y, CGMouseButton button, int clickState) {
    CGEventRef ev = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), button);
    if (!ev) return -1;
    if (clickState > 0) {
        CGEventSetIntegerValueField(ev, kCGMouseEventClickState, clickState);
    }
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

// button: 0 left, 1 right, 2 middle.
static int mp_click(double x, double y, int button, int count) {
    CGEventType down = kCGEventLeftMouseDown, up = kCGEventLeftMouseUp;
    CGMouseButton b = kCGMouseButtonLeft;
    if (button == 1) {
        down = kCGEventRightMouseDown; up = kCGEventRightMouseUp; b = kCGMouseButtonRight;
    } else if (button == 2) {
        down = kCGEventOtherMouseDown; up = kCGEventOtherMouseUp; b = kCGMouseButtonCenter;
    }
    for (int i = 1; i <= count; i++) {
        if (mp_post_mouse(down, x, y, b, i) != 0) return -1;
        if (mp_post_mouse(up, x, y, b, i) != 0) return -1;
    }
    return 0;
}

static int mp_cursor(double *x, double *y) {
    CGEventRef ev = CGEventCreate(NULL);
    if (!ev) return -1;
    CGPoint p = CGEventGetLocation(ev);
    CFRelease(ev);
    *x = p.x;
    *y = p.y;
    return 0;
}

static int mp_key(CGKeyCode code, CGEventFlags flags) {
    CGEventRef down = CGEventCreateKeyboardEvent(NULL, code, true);
    CGEventRef up = CGEventCreateKeyboardEvent(NULL, code, false);
    if (!down || !up) {
        if (down) CFRelease(down);
        if (up) CFRelease(up);
        return -1;
    }
    CGEventSetFlags(down, flags);
    CGEventSetFlags(up, flags);
    CGEventPost(kCGHIDEventTap, down);
    CGEventPost(kCGHIDEventTap, up);
    CFRelease(down);
    CFRelease(up);
    return 0;
}
*/
import "C"

import (
	"fmt"

	"github.com/mj1618/macpilot/internal/platform"
)

// DarwinInputter implements platform.Inputter with CoreGraphics events.
type DarwinInputter struct{}

// NewInputter creates a new macOS inputter.
func NewInputter() *DarwinInputter {
	return &DarwinInputter{}
}

func (inp *DarwinInputter) CursorPosition() (platform.Point, error) {
	var x, y C.double
	if C.mp_cursor(&x, &y) != 0 {
		return platform.Point{}, fmt.Errorf("failed to read cursor position")
	}
	return platform.Point{X: float64(x), Y: float64(y)}, nil
}

func (inp *DarwinInputter) MoveMouse(x, y int) error {
	if C.mp_post_mouse(C.kCGEventMouseMoved, C.double(x), C.double(y), C.kCGMouseButtonLeft, 0) != 0 {
		return fmt.Errorf("failed to move mouse to (%d, %d)", x, y)
	}
	return nil
}

func (inp *DarwinInputter) Click(x, y int, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	if C.mp_click(C.double(x), C.double(y), C.int(button), C.int(count)) != 0 {
		return fmt.Errorf("failed to %s-click at (%d, %d)", button, x, y)
	}
	return nil
}

func (inp *DarwinInputter) KeyCombo(keys []string) error {
	combo, err := parseKeyCombo(keys)
	if err != nil {
		return err
	}
	if C.mp_key(C.CGKeyCode(combo.code), C.CGEventFlags(combo.flags)) != 0 {
		return fmt.Errorf("failed to press %v", keys)
	}
	return nil
}
