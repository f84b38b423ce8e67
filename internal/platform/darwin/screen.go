//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework Foundation
#import <AppKit/AppKit.h>

static int mp_main_screen(double *width, double *height, double *scale) {
    @autoreleasepool {
        NSScreen *screen = [NSScreen mainScreen];
        if (!screen) return -1;
        NSRect frame = [screen frame];
        *width = frame.size.width;
        *height = frame.size.height;
        *scale = [screen backingScaleFactor];
    }
    return 0;
}
*/
import "C"

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mj1618/macpilot/internal/platform"
)

// Screen implements platform.Screen for the main display.
type Screen struct{}

// NewScreen returns a new Screen.
func NewScreen() *Screen {
	return &Screen{}
}

func (s *Screen) MainScreen() (platform.ScreenInfo, error) {
	var w, h, scale C.double
	if C.mp_main_screen(&w, &h, &scale) != 0 {
		return platform.ScreenInfo{}, fmt.Errorf("no main screen")
	}
	return platform.ScreenInfo{Width: float64(w), Height: float64(h), Scale: float64(scale)}, nil
}

// Capture shells out to screencapture, which handles multi-display layouts
// and the screen recording prompt itself.
func (s *Screen) Capture() ([]byte, error) {
	if err := CheckScreenRecordingPermission(); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "macpilot-capture-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "screen.png")
	out, err := exec.Command("screencapture", "-x", "-m", "-t", "png", path).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("screencapture: %w: %s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	return data, nil
}
