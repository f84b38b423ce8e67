//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

static int mp_is_trusted(int prompt) {
    if (!prompt) return AXIsProcessTrusted();
    const void *keys[] = { kAXTrustedCheckOptionPrompt };
    const void *values[] = { kCFBooleanTrue };
    CFDictionaryRef opts = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
        &kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
    int trusted = AXIsProcessTrustedWithOptions(opts);
    CFRelease(opts);
    return trusted;
}

static int mp_screen_capture_allowed(int prompt) {
    if (CGPreflightScreenCaptureAccess()) return 1;
    if (prompt) return CGRequestScreenCaptureAccess() ? 1 : 0;
    return 0;
}
*/
import "C"

import "fmt"

// CheckAccessibilityPermission checks if the process has macOS accessibility permission.
// Returns an error with instructions if permission is not granted.
func CheckAccessibilityPermission() error {
	if C.mp_is_trusted(0) == 0 {
		return fmt.Errorf(
			"accessibility permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n" +
				"Add the app hosting macpilot (your terminal or MCP client).\n" +
				"Then restart it and try again.")
	}
	return nil
}

// CheckScreenRecordingPermission checks if the process may capture the screen.
func CheckScreenRecordingPermission() error {
	if C.mp_screen_capture_allowed(0) == 0 {
		return fmt.Errorf(
			"screen recording permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Screen Recording\n" +
				"Add the app hosting macpilot (your terminal or MCP client).\n" +
				"Then restart it and try again.")
	}
	return nil
}

// RequestPermissions shows the system prompts for any permission not yet granted.
func RequestPermissions() {
	C.mp_is_trusted(1)
	C.mp_screen_capture_allowed(1)
}
