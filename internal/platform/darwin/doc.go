//go:build darwin

// Package darwin provides macOS platform support using the Accessibility,
// CoreGraphics and AppKit APIs. It registers itself with the platform
// package when imported. Without cgo only the pbcopy clipboard is built and
// no provider is registered.
package darwin
