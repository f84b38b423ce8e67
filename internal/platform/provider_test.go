package platform

import (
	"runtime"
	"testing"
)

func TestNewProvider_ReturnsProvider(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("skipping on non-darwin")
	}
	// The darwin package registers itself only when imported, so this just
	// checks the call does not panic.
	_, _ = NewProvider()
}

func TestNewProvider_UnsupportedPlatform(t *testing.T) {
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	_, err := NewProvider()
	if err == nil {
		t.Fatal("expected error on unsupported platform")
	}
	if err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestNewProvider_UsesRegisteredFunc(t *testing.T) {
	orig := NewProviderFunc
	defer func() { NewProviderFunc = orig }()

	want := &Provider{}
	NewProviderFunc = func() (*Provider, error) { return want, nil }
	got, err := NewProvider()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("NewProvider did not return the registered provider")
	}
}

func TestRequestPermissions(t *testing.T) {
	orig := RequestPermissionsFunc
	defer func() { RequestPermissionsFunc = orig }()

	RequestPermissionsFunc = nil
	RequestPermissions()

	called := false
	RequestPermissionsFunc = func() { called = true }
	RequestPermissions()
	if !called {
		t.Error("registered permission func was not called")
	}
}
