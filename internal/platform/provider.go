package platform

import (
	"fmt"
	"runtime"

	"github.com/mj1618/macpilot/internal/axtree"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Accessibility axtree.Provider
	Inputter      Inputter
	Clipboard     Clipboard
	Screen        Screen
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("macpilot is not supported on %s/%s; supported: darwin/amd64, darwin/arm64", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (accessibility, screen recording) at startup.
var RequestPermissionsFunc func()

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// RequestPermissions runs the registered permission prompt, if any.
func RequestPermissions() {
	if RequestPermissionsFunc != nil {
		RequestPermissionsFunc()
	}
}
