package main

// Registers the macOS provider.
import _ "github.com/mj1618/macpilot/internal/platform/darwin"
