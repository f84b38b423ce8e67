//go:build darwin && cgo

package darwin

import "github.com/mj1618/macpilot/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Accessibility: NewAccessibility(),
			Inputter:      NewInputter(),
			Clipboard:     NewPasteboard(),
			Screen:        NewScreen(),
		}, nil
	}
	platform.RequestPermissionsFunc = RequestPermissions
}
